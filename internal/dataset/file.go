package dataset

import (
	"context"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fraud-dashboard/internal/fetcher"
)

// CSVSource reads the Feature Table from a CSV export.
type CSVSource struct {
	path string
}

// NewCSVSource returns a Source for the CSV file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string { return s.path }

func (s *CSVSource) Read(ctx context.Context) (*fetcher.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	tbl, err := fetcher.ReadCSVTable(ctx, f, fetcher.CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}
	return tbl, nil
}

// XLSXSource reads the Feature Table from a spreadsheet export.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource returns a Source for one sheet of the workbook at path.
// An empty sheet name selects the first sheet.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

func (s *XLSXSource) Name() string { return s.path }

func (s *XLSXSource) Read(ctx context.Context) (*fetcher.Table, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, eris.Wrap(err, "dataset: stat xlsx")
	}
	tbl, err := fetcher.ReadXLSXTable(s.path, fetcher.XLSXOptions{SheetName: s.sheet})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read xlsx")
	}
	return tbl, nil
}
