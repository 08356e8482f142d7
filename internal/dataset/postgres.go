package dataset

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/fraud-dashboard/internal/db"
	"github.com/sells-group/fraud-dashboard/internal/fetcher"
)

// PostgresSource reads the Feature Table from a PostgreSQL table. Rows are
// ordered by orderBy, which must reproduce the export order; pandas'
// DataFrame.to_sql writes that order into an "index" column.
type PostgresSource struct {
	pool    db.Pool
	table   string
	orderBy string
}

// NewPostgresSource connects a small pool and returns a Source for table.
func NewPostgresSource(ctx context.Context, connString, table, orderBy string) (*PostgresSource, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 2
	pgxCfg.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return newPostgresSource(pool, table, orderBy), nil
}

func newPostgresSource(pool db.Pool, table, orderBy string) *PostgresSource {
	if orderBy == "" {
		orderBy = "index"
	}
	return &PostgresSource{pool: pool, table: table, orderBy: orderBy}
}

func (s *PostgresSource) Name() string { return "postgres:" + s.table }

func (s *PostgresSource) Read(ctx context.Context) (*fetcher.Table, error) {
	query := "SELECT * FROM " + pgx.Identifier(strings.Split(s.table, ".")).Sanitize() +
		" ORDER BY " + pgx.Identifier{s.orderBy}.Sanitize()

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: select %s", s.table)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	tbl := &fetcher.Table{Header: header}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "postgres: row values")
		}
		tbl.Rows = append(tbl.Rows, cellStrings(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rows")
	}
	return tbl, nil
}

// Close releases the pool.
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}
