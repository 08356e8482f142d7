package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgresSource(t *testing.T, table, orderBy string) (*PostgresSource, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return newPostgresSource(mock, table, orderBy), mock
}

func TestPostgresSource_Read(t *testing.T) {
	src, mock := newMockPostgresSource(t, "analytics.provider_features", "")

	mock.ExpectQuery(`SELECT * FROM "analytics"."provider_features" ORDER BY "index"`).
		WillReturnRows(pgxmock.NewRows([]string{"index", "Provider", "total_claims", "PotentialFraud"}).
			AddRow(int64(0), "P1", int64(5), int64(0)).
			AddRow(int64(1), "P2", int64(12), int64(1)))

	raw, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"index", "Provider", "total_claims", "PotentialFraud"}, raw.Header)
	assert.Equal(t, [][]string{{"0", "P1", "5", "0"}, {"1", "P2", "12", "1"}}, raw.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())

	tbl, err := Parse(raw, DefaultSchema)
	require.NoError(t, err)
	assert.Equal(t, []string{"total_claims"}, tbl.Columns)
}

func TestPostgresSource_QueryError(t *testing.T) {
	src, mock := newMockPostgresSource(t, "provider_features", "Provider")

	mock.ExpectQuery(`SELECT * FROM "provider_features" ORDER BY "Provider"`).
		WillReturnError(errors.New("relation does not exist"))

	_, err := src.Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: select provider_features")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Name(t *testing.T) {
	src, _ := newMockPostgresSource(t, "provider_features", "")
	assert.Equal(t, "postgres:provider_features", src.Name())
}

func TestCellStrings(t *testing.T) {
	got := cellStrings([]any{nil, "P1", []byte("x"), int64(3), int32(4), 5, 1.5, float32(0.25), true})
	assert.Equal(t, []string{"", "P1", "x", "3", "4", "5", "1.5", "0.25", "true"}, got)
}
