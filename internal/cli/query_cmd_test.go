package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunQuery_WithRefsFile(t *testing.T) {
	refsPath := filepath.Join(t.TempDir(), "refs.yaml")
	require.NoError(t, os.WriteFile(refsPath, []byte(`
sales:
  - city: NY
    total: 100
  - city: LA
    total: 50
`), 0o644))

	var out bytes.Buffer
	err := runQuery(&out, "SELECT * FROM {sales} WHERE total > 60", refsPath, "", 10*time.Second)
	require.NoError(t, err)

	require.Contains(t, out.String(), "NY")
	require.NotContains(t, out.String(), "LA")
	require.Contains(t, out.String(), "(1 rows)")
}

func TestRunQuery_PlainSQL(t *testing.T) {
	var out bytes.Buffer
	err := runQuery(&out, "SELECT 42 AS answer", "", "", 10*time.Second)
	require.NoError(t, err)
	require.Contains(t, out.String(), "answer")
	require.Contains(t, out.String(), "42")
}

func TestRunQuery_MissingRefsFile(t *testing.T) {
	var out bytes.Buffer
	err := runQuery(&out, "SELECT 1", filepath.Join(t.TempDir(), "nope.yaml"), "", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read refs file")
}

func TestRunQuery_UnknownLabel(t *testing.T) {
	var out bytes.Buffer
	err := runQuery(&out, "SELECT * FROM {ghost}", "", "", 10*time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"ghost"`)
}
