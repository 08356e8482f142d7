package model

import (
	"errors"
	"fmt"
)

// DataUnavailableError reports that a source artifact is missing, unreadable
// or malformed. It is fatal for the session: the dashboard cannot render
// without its data and there is nothing to retry against.
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable: %s: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// NewDataUnavailable wraps err as a DataUnavailableError for source.
func NewDataUnavailable(source string, err error) *DataUnavailableError {
	return &DataUnavailableError{Source: source, Err: err}
}

// IsDataUnavailable returns true if err, or any error in its chain, is a
// DataUnavailableError.
func IsDataUnavailable(err error) bool {
	var du *DataUnavailableError
	return errors.As(err, &du)
}
