// Package dataset loads the provider Feature Table from its upstream export.
package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fraud-dashboard/internal/fetcher"
)

// Format identifies a Feature Table source kind.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatSQLite   Format = "sqlite"
	FormatPostgres Format = "postgres"
)

// Source yields the raw Feature Table: a header and string rows in the
// order the upstream export wrote them.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	Read(ctx context.Context) (*fetcher.Table, error)
}

// Options selects and configures a Source.
type Options struct {
	Path        string // file path (csv, xlsx, sqlite)
	Format      Format // empty = detect from Path
	Table       string // table name (sqlite, postgres)
	Sheet       string // sheet name (xlsx)
	DatabaseURL string // postgres connection string
	OrderBy     string // postgres row order column
}

// DetectFormat infers the format from a file extension or URL scheme.
func DetectFormat(path string) (Format, error) {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return FormatPostgres, nil
	}
	switch filepath.Ext(lower) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", eris.Errorf("dataset: cannot detect format of %q", path)
	}
}

// NewSource builds the Source described by opts.
func NewSource(ctx context.Context, opts Options) (Source, error) {
	format := opts.Format
	if format == "" {
		target := opts.Path
		if target == "" {
			target = opts.DatabaseURL
		}
		f, err := DetectFormat(target)
		if err != nil {
			return nil, err
		}
		format = f
	}

	switch format {
	case FormatCSV:
		return NewCSVSource(opts.Path), nil
	case FormatXLSX:
		return NewXLSXSource(opts.Path, opts.Sheet), nil
	case FormatSQLite:
		return NewSQLiteSource(opts.Path, opts.Table), nil
	case FormatPostgres:
		url := opts.DatabaseURL
		if url == "" {
			url = opts.Path
		}
		return NewPostgresSource(ctx, url, opts.Table, opts.OrderBy)
	default:
		return nil, eris.Errorf("dataset: unsupported format %q", format)
	}
}
