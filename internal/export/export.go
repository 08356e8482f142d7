// Package export writes filtered provider rows as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/fraud-dashboard/internal/model"
)

// Format is a download file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet that holds exported rows.
const SheetName = "providers"

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("export: unsupported file extension %q", filepath.Ext(path))
	}
}

// Header returns the export header: Provider, PotentialFraud, then the
// feature columns in table order.
func Header(columns []string) []string {
	out := make([]string, 0, len(columns)+2)
	out = append(out, "Provider", "PotentialFraud")
	return append(out, columns...)
}

// Write encodes recs in format f.
func Write(w io.Writer, f Format, columns []string, recs []model.Record) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, columns, recs)
	case FormatXLSX:
		return WriteXLSX(w, columns, recs)
	default:
		return eris.Errorf("export: unsupported format %q", f)
	}
}

// WriteCSV writes recs as CSV with a header row.
func WriteCSV(w io.Writer, columns []string, recs []model.Record) error {
	cw := csv.NewWriter(w)
	header := Header(columns)
	for i, h := range header {
		header[i] = escapeCell(h)
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	row := make([]string, len(columns)+2)
	for _, r := range recs {
		row[0] = escapeCell(r.Provider)
		row[1] = strconv.Itoa(r.PotentialFraud)
		for i, c := range columns {
			row[i+2] = strconv.FormatFloat(r.Features[c], 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", r.Provider)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// escapeCell prefixes text that a spreadsheet would evaluate as a formula.
func escapeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// WriteXLSX writes recs as a one-sheet workbook with numeric cells.
func WriteXLSX(w io.Writer, columns []string, recs []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return eris.Wrap(err, "export: name sheet")
	}

	header := make([]any, 0, len(columns)+2)
	for _, h := range Header(columns) {
		header = append(header, h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return eris.Wrap(err, "export: write xlsx header")
	}

	for i, r := range recs {
		row := make([]any, 0, len(columns)+2)
		row = append(row, r.Provider, r.PotentialFraud)
		for _, c := range columns {
			row = append(row, r.Features[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return eris.Wrap(err, "export: cell name")
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return eris.Wrapf(err, "export: write xlsx row %s", r.Provider)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

// WriteFile writes recs to path in the format implied by its extension.
func WriteFile(path string, columns []string, recs []model.Record) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	if err := Write(out, format, columns, recs); err != nil {
		out.Close()
		return err
	}
	return eris.Wrap(out.Close(), "export: close file")
}
