package explain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fraud-dashboard/internal/memo"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

// Format identifies the on-disk encoding of the SHAP matrix.
type Format string

const (
	FormatNPY Format = "npy"
	FormatCSV Format = "csv"
)

// DetectFormat infers the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npy":
		return FormatNPY, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", eris.Errorf("explain: cannot detect format of %q", path)
	}
}

// Loader reads the Explainability Array once per process.
type Loader struct {
	path   string
	format Format
	header HeaderMode
	array  *memo.Value[*model.ExplainabilityArray]
}

// NewLoader creates a Loader for the file at path. An empty format is
// detected from the extension at load time. header only applies to CSV.
func NewLoader(path string, format Format, header HeaderMode) *Loader {
	l := &Loader{path: path, format: format, header: header}
	l.array = memo.New(l.load)
	return l
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the Explainability Array. Failures are
// *model.DataUnavailableError. The row count is not checked against the
// Feature Table here; see dashboard.Load.
func (l *Loader) Load(ctx context.Context) (*model.ExplainabilityArray, error) {
	return l.array.Get(ctx)
}

func (l *Loader) load(ctx context.Context) (*model.ExplainabilityArray, error) {
	log := zap.L().With(zap.String("component", "explain.loader"), zap.String("path", l.path))
	start := time.Now()

	arr, err := l.read(ctx)
	if err == nil && arr.Rows == 0 {
		err = eris.New("explain: array has no rows")
	}
	if err != nil {
		log.Error("explainability array unavailable", zap.Error(err))
		return nil, model.NewDataUnavailable(l.path, err)
	}

	log.Info("explainability array loaded",
		zap.Int("rows", arr.Rows),
		zap.Int("cols", arr.Cols),
		zap.Duration("elapsed", time.Since(start)),
	)
	return arr, nil
}

func (l *Loader) read(ctx context.Context) (*model.ExplainabilityArray, error) {
	format := l.format
	if format == "" {
		f, err := DetectFormat(l.path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, eris.Wrap(err, "explain: open")
	}
	defer f.Close()

	switch format {
	case FormatNPY:
		rows, cols, data, err := ReadNPY(f)
		if err != nil {
			return nil, err
		}
		return model.NewExplainabilityArray(rows, cols, nil, data)
	case FormatCSV:
		names, rows, cols, data, err := ReadCSV(ctx, f, l.header)
		if err != nil {
			return nil, err
		}
		return model.NewExplainabilityArray(rows, cols, names, data)
	default:
		return nil, eris.Errorf("explain: unsupported format %q", format)
	}
}
