package main

import (
	"context"

	"github.com/sells-group/fraud-dashboard/internal/artifact"
	"github.com/sells-group/fraud-dashboard/internal/config"
	"github.com/sells-group/fraud-dashboard/internal/dashboard"
	"github.com/sells-group/fraud-dashboard/internal/dataset"
	"github.com/sells-group/fraud-dashboard/internal/explain"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

// initCatalog builds the plot catalog from the reports config.
func initCatalog(c *config.Config) (*artifact.Catalog, error) {
	return artifact.NewCatalog(artifact.Options{
		Dir:             c.Reports.Dir,
		WaterfallPrefix: c.Reports.WaterfallPrefix,
		WaterfallSuffix: c.Reports.WaterfallSuffix,
		Manifest:        c.Reports.Manifest,
	})
}

// initSnapshot loads both artifacts described by c into a Snapshot.
// correspondence overrides c.Data.Correspondence when non-empty.
func initSnapshot(ctx context.Context, c *config.Config, correspondence string) (*dashboard.Snapshot, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cat, err := initCatalog(c)
	if err != nil {
		return nil, err
	}
	header, err := explain.ParseHeaderMode(c.Data.SHAP.Header)
	if err != nil {
		return nil, err
	}

	feat := c.Data.Features
	src, err := dataset.NewSource(ctx, dataset.Options{
		Path:        feat.Path,
		Format:      dataset.Format(feat.Format),
		Table:       feat.Table,
		Sheet:       feat.Sheet,
		DatabaseURL: feat.DatabaseURL,
		OrderBy:     feat.OrderBy,
	})
	if err != nil {
		target := feat.Path
		if target == "" {
			target = "postgres:" + feat.Table
		}
		return nil, model.NewDataUnavailable(target, err)
	}
	tables := dataset.NewLoader(src, dataset.Schema{
		IDColumn:     c.Data.IDColumn,
		LabelColumn:  c.Data.LabelColumn,
		ClaimsColumn: c.Data.ClaimsColumn,
	})
	arrays := explain.NewLoader(c.Data.SHAP.Path, explain.Format(c.Data.SHAP.Format), header)

	if correspondence == "" {
		correspondence = c.Data.Correspondence
	}
	return dashboard.Load(ctx, tables, arrays, cat, dashboard.Options{
		Correspondence: correspondence,
		TopFeatures:    c.Explain.TopFeatures,
		PageSize:       c.Server.PageSize,
		AboutPath:      c.Reports.About,
	})
}
