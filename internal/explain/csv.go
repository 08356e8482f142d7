package explain

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fraud-dashboard/internal/fetcher"
)

// HeaderMode says whether a SHAP CSV starts with a feature-name record.
type HeaderMode string

const (
	// HeaderAuto treats the first record as a header when it is not numeric
	// or when it is the positional sequence 0..n-1 written by pandas.
	HeaderAuto    HeaderMode = "auto"
	HeaderPresent HeaderMode = "true"
	HeaderAbsent  HeaderMode = "false"
)

// ParseHeaderMode parses the data.shap.header setting. Empty means auto.
func ParseHeaderMode(s string) (HeaderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HeaderAuto, nil
	case "true", "1", "yes":
		return HeaderPresent, nil
	case "false", "0", "no":
		return HeaderAbsent, nil
	default:
		return "", eris.Errorf("explain: unknown header mode %q", s)
	}
}

// ReadCSV decodes a numeric matrix from CSV. A leading pandas index column
// (blank or "Unnamed: 0" header) is dropped. Positional integer headers
// yield nil names.
func ReadCSV(ctx context.Context, r io.Reader, header HeaderMode) (names []string, rows, cols int, data []float64, err error) {
	rowCh, errCh := fetcher.StreamCSV(ctx, r, fetcher.CSVOptions{TrimSpace: true})

	first := true
	skip := 0
	for rec := range rowCh {
		if first {
			first = false
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			if isHeader(rec, header) {
				if len(rec) > 1 && isIndexHeader(rec[0]) {
					skip = 1
				}
				cols = len(rec) - skip
				if !positional(rec[skip:]) {
					names = make([]string, cols)
					copy(names, rec[skip:])
				}
				continue
			}
			cols = len(rec)
		}
		if len(rec) != cols+skip {
			err = eris.Errorf("explain: csv row %d has %d values, want %d", rows+1, len(rec), cols+skip)
			break
		}
		for _, cell := range rec[skip:] {
			v, perr := strconv.ParseFloat(cell, 64)
			if perr != nil {
				err = eris.Errorf("explain: csv row %d: invalid number %q", rows+1, cell)
				break
			}
			data = append(data, v)
		}
		if err != nil {
			break
		}
		rows++
	}
	// Drain so the streaming goroutine can exit on early return.
	for range rowCh {
	}
	for cerr := range errCh {
		if cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return nil, 0, 0, nil, err
	}
	return names, rows, cols, data, nil
}

func isHeader(rec []string, mode HeaderMode) bool {
	switch mode {
	case HeaderPresent:
		return true
	case HeaderAbsent:
		return false
	default:
		return !numericRecord(rec) || positional(rec)
	}
}

func isIndexHeader(h string) bool {
	return h == "" || h == "index" || strings.HasPrefix(h, "Unnamed:")
}

// positional reports whether rec is exactly "0", "1", ... "n-1".
func positional(rec []string) bool {
	for i, cell := range rec {
		if cell != strconv.Itoa(i) {
			return false
		}
	}
	return len(rec) > 0
}

func numericRecord(rec []string) bool {
	for _, cell := range rec {
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return true
}
