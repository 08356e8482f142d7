// Package dashboard holds the loaded, immutable state of the application
// and renders the five dashboard views from it.
package dashboard

import (
	"context"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/fraud-dashboard/internal/artifact"
	"github.com/sells-group/fraud-dashboard/internal/insight"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

// Correspondence policies for the Feature Table / Explainability Array pair.
const (
	CorrespondenceStrict = "strict"
	CorrespondenceWarn   = "warn"
)

// TableLoader loads the Feature Table.
type TableLoader interface {
	Load(ctx context.Context) (*model.FeatureTable, error)
}

// ArrayLoader loads the Explainability Array.
type ArrayLoader interface {
	Load(ctx context.Context) (*model.ExplainabilityArray, error)
}

// Options tunes snapshot construction and rendering.
type Options struct {
	Correspondence string // strict (default) or warn
	TopFeatures    int    // contributions shown per provider; <= 0 shows all
	PageSize       int    // default explorer page size
	AboutPath      string // optional markdown file replacing the built-in docs
}

const defaultPageSize = 50

// Snapshot is the context shared by every view. It is built once by Load
// and never modified, so it is safe for concurrent readers.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Table    *model.FeatureTable
	Array    *model.ExplainabilityArray
	Catalog  *artifact.Catalog

	opts       Options
	balance    insight.ClassBalance
	features   []insight.FeatureInsight
	importance []insight.Importance
	about      []byte
	aligned    bool
}

// Load reads both artifacts concurrently and derives the view summaries.
// Load failures are returned as *model.DataUnavailableError.
func Load(ctx context.Context, tables TableLoader, arrays ArrayLoader, catalog *artifact.Catalog, opts Options) (*Snapshot, error) {
	if opts.Correspondence == "" {
		opts.Correspondence = CorrespondenceStrict
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	log := zap.L().With(zap.String("component", "dashboard"))

	var (
		tbl *model.FeatureTable
		arr *model.ExplainabilityArray
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := tables.Load(gctx)
		tbl = t
		return err
	})
	g.Go(func() error {
		a, err := arrays.Load(gctx)
		arr = a
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	aligned := arr.Rows == tbl.Len()
	if !aligned {
		mismatch := eris.Errorf("dashboard: explainability array has %d rows, feature table has %d", arr.Rows, tbl.Len())
		if opts.Correspondence != CorrespondenceWarn {
			return nil, model.NewDataUnavailable("explainability array", mismatch)
		}
		log.Warn("feature table and explainability array are not aligned", zap.Error(mismatch))
	}

	// Arrays without their own header take the table's column names.
	if slices.Equal(arr.Features, model.GenericFeatureNames(arr.Cols)) {
		arr = arr.WithFeatures(tbl.Columns)
	}

	features, err := insight.FeatureInsights(tbl)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: feature insights")
	}

	about := defaultAbout
	if opts.AboutPath != "" {
		about, err = os.ReadFile(opts.AboutPath)
		if err != nil {
			return nil, eris.Wrap(err, "dashboard: read about document")
		}
	}

	s := &Snapshot{
		ID:         uuid.NewString(),
		LoadedAt:   time.Now().UTC(),
		Table:      tbl,
		Array:      arr,
		Catalog:    catalog,
		opts:       opts,
		balance:    insight.Balance(tbl),
		features:   features,
		importance: insight.GlobalImportance(arr),
		about:      renderMarkdown(about),
		aligned:    aligned,
	}

	log.Info("snapshot ready",
		zap.String("snapshot", s.ID),
		zap.Int("providers", tbl.Len()),
		zap.Int("explainability_rows", arr.Rows),
		zap.Bool("aligned", aligned),
	)
	return s, nil
}

// Aligned reports whether both artifacts have the same row count.
func (s *Snapshot) Aligned() bool {
	return s.aligned
}

// Balance returns the label counts of the Feature Table.
func (s *Snapshot) Balance() insight.ClassBalance {
	return s.balance
}

// PageSize returns the default explorer page size.
func (s *Snapshot) PageSize() int {
	return s.opts.PageSize
}
