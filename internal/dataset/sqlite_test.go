package dataset

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE provider_features (
		Provider TEXT PRIMARY KEY,
		total_claims INTEGER,
		total_reimbursed REAL,
		PotentialFraud INTEGER
	)`)
	require.NoError(t, err)

	for _, r := range []struct {
		id     string
		claims int
		reimb  float64
		label  int
	}{
		{"P1", 5, 1200, 0},
		{"P2", 12, 98000.5, 1},
		{"P3", 0, 0, 1},
	} {
		_, err := db.Exec(`INSERT INTO provider_features VALUES (?, ?, ?, ?)`, r.id, r.claims, r.reimb, r.label)
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteSource_Read(t *testing.T) {
	path := createTestSQLite(t)

	raw, err := NewSQLiteSource(path, "provider_features").Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Provider", "total_claims", "total_reimbursed", "PotentialFraud"}, raw.Header)
	require.Len(t, raw.Rows, 3)
	assert.Equal(t, []string{"P2", "12", "98000.5", "1"}, raw.Rows[1])

	tbl, err := Parse(raw, DefaultSchema)
	require.NoError(t, err)
	idx, ok := tbl.IndexOf("P3")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestSQLiteSource_MissingFile(t *testing.T) {
	_, err := NewSQLiteSource(filepath.Join(t.TempDir(), "none.db"), "provider_features").Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: stat")
}

func TestSQLiteSource_MissingTable(t *testing.T) {
	path := createTestSQLite(t)
	_, err := NewSQLiteSource(path, "nope").Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: select nope")
}

func TestQuoteSQLiteIdent(t *testing.T) {
	assert.Equal(t, `"provider_features"`, quoteSQLiteIdent("provider_features"))
	assert.Equal(t, `"we""ird"`, quoteSQLiteIdent(`we"ird`))
}
