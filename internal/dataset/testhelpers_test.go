package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCSV = `Provider,total_claims,total_reimbursed,PotentialFraud
P1,5,1200,0
P2,12,98000,1
P3,0,0,1
`

// writeTestFile writes content into a fresh temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
