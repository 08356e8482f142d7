package dataset

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/fraud-dashboard/internal/fetcher"
)

// SQLiteSource reads the Feature Table from a table in a SQLite file, in
// rowid order. Views are not supported.
type SQLiteSource struct {
	path  string
	table string
}

// NewSQLiteSource returns a Source for table inside the SQLite file at path.
func NewSQLiteSource(path, table string) *SQLiteSource {
	return &SQLiteSource{path: path, table: table}
}

func (s *SQLiteSource) Name() string { return s.path + "#" + s.table }

func (s *SQLiteSource) Read(ctx context.Context) (*fetcher.Table, error) {
	// sql.Open would silently create an empty database.
	if _, err := os.Stat(s.path); err != nil {
		return nil, eris.Wrap(err, "sqlite: stat")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteSQLiteIdent(s.table)+" ORDER BY rowid")
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: select %s", s.table)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: columns")
	}

	tbl := &fetcher.Table{Header: header}
	for rows.Next() {
		vals := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan row")
		}
		tbl.Rows = append(tbl.Rows, cellStrings(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate rows")
	}
	return tbl, nil
}

func quoteSQLiteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
