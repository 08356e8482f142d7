package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fraud-dashboard/internal/fetcher"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

// countingSource wraps a Source and counts reads.
type countingSource struct {
	Source
	reads  int
	closed bool
}

func (c *countingSource) Read(ctx context.Context) (*fetcher.Table, error) {
	c.reads++
	return c.Source.Read(ctx)
}

func (c *countingSource) Close() error {
	c.closed = true
	return nil
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }
func (failingSource) Read(context.Context) (*fetcher.Table, error) {
	return nil, errors.New("disk on fire")
}

func TestLoader_LoadOnce(t *testing.T) {
	src := &countingSource{Source: NewCSVSource(writeTestFile(t, "features.csv", sampleCSV))}
	l := NewLoader(src, DefaultSchema)

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, src.reads)
	assert.True(t, src.closed)
	assert.Equal(t, 3, first.Len())
}

func TestLoader_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	l := NewLoader(NewCSVSource(path), DefaultSchema)

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsDataUnavailable(err))

	var du *model.DataUnavailableError
	require.ErrorAs(t, err, &du)
	assert.Equal(t, path, du.Source)
}

func TestLoader_Malformed(t *testing.T) {
	path := writeTestFile(t, "features.csv", "Provider,total_claims,PotentialFraud\nP1,abc,0\n")
	l := NewLoader(NewCSVSource(path), DefaultSchema)

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsDataUnavailable(err))
	assert.Contains(t, err.Error(), `invalid number "abc"`)
}

func TestLoader_FailureIsMemoized(t *testing.T) {
	l := NewLoader(failingSource{}, DefaultSchema)

	_, err1 := l.Load(context.Background())
	_, err2 := l.Load(context.Background())
	require.Error(t, err1)
	assert.Same(t, err1, err2)
	assert.Contains(t, err1.Error(), "data unavailable: broken: disk on fire")
}
