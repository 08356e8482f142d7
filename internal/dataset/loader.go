package dataset

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fraud-dashboard/internal/memo"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

// Loader reads the Feature Table once per process. Every later call returns
// the same *model.FeatureTable, or the same DataUnavailableError.
type Loader struct {
	source Source
	schema Schema
	table  *memo.Value[*model.FeatureTable]
}

// NewLoader creates a Loader over source.
func NewLoader(source Source, schema Schema) *Loader {
	l := &Loader{source: source, schema: schema}
	l.table = memo.New(l.load)
	return l
}

// Load returns the Feature Table. Failures are *model.DataUnavailableError.
func (l *Loader) Load(ctx context.Context) (*model.FeatureTable, error) {
	return l.table.Get(ctx)
}

func (l *Loader) load(ctx context.Context) (*model.FeatureTable, error) {
	log := zap.L().With(zap.String("component", "dataset.loader"), zap.String("source", l.source.Name()))
	start := time.Now()

	// Sources are read exactly once, so any connection they hold can go now.
	if c, ok := l.source.(io.Closer); ok {
		defer c.Close()
	}

	raw, err := l.source.Read(ctx)
	if err != nil {
		log.Error("feature table unavailable", zap.Error(err))
		return nil, model.NewDataUnavailable(l.source.Name(), err)
	}

	tbl, err := Parse(raw, l.schema)
	if err != nil {
		log.Error("feature table malformed", zap.Error(err))
		return nil, model.NewDataUnavailable(l.source.Name(), err)
	}

	log.Info("feature table loaded",
		zap.Int("providers", tbl.Len()),
		zap.Int("features", len(tbl.Columns)),
		zap.Int("fraudulent", tbl.FraudCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return tbl, nil
}
