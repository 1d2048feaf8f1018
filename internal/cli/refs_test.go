package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRefs(t *testing.T) {
	refs, err := parseRefs([]byte(`
sales:
  - city: NY
    total: 100
  - city: LA
    total: 50.5
users:
  - name: O'Brien
    active: true
    deleted_at: null
`))
	require.NoError(t, err)
	require.Len(t, refs, 2)

	sales := refs["sales"]
	require.Len(t, sales, 2)
	require.Equal(t, []string{"city", "total"}, sales.Columns())

	v, ok := sales[0].Value("total")
	require.True(t, ok)
	require.Equal(t, json.Number("100"), v)
	v, _ = sales[1].Value("total")
	require.Equal(t, json.Number("50.5"), v)

	users := refs["users"]
	require.Len(t, users, 1)
	require.Equal(t, []string{"name", "active", "deleted_at"}, users.Columns())
	v, _ = users[0].Value("name")
	require.Equal(t, "O'Brien", v)
	v, _ = users[0].Value("active")
	require.Equal(t, true, v)
	v, ok = users[0].Value("deleted_at")
	require.True(t, ok)
	require.Nil(t, v)
}

func TestParseRefs_ColumnOrderPreserved(t *testing.T) {
	refs, err := parseRefs([]byte(`
wide:
  - zebra: 1
    apple: 2
    mango: 3
`))
	require.NoError(t, err)
	require.Equal(t, []string{"zebra", "apple", "mango"}, refs["wide"].Columns())
}

func TestParseRefs_EmptyRows(t *testing.T) {
	refs, err := parseRefs([]byte("pending:\n"))
	require.NoError(t, err)
	rs, ok := refs["pending"]
	require.True(t, ok)
	require.Len(t, rs, 0)

	refs, err = parseRefs([]byte("pending: []\n"))
	require.NoError(t, err)
	require.Len(t, refs["pending"], 0)
}

func TestParseRefs_EmptyDocument(t *testing.T) {
	refs, err := parseRefs(nil)
	require.NoError(t, err)
	require.Empty(t, refs)
}

func TestParseRefs_NotAMapping(t *testing.T) {
	_, err := parseRefs([]byte("- just\n- a\n- list\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "mapping")
}

func TestParseRefs_RowNotAMapping(t *testing.T) {
	_, err := parseRefs([]byte("sales:\n  - 42\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), `label "sales"`)
}

func TestParseRefs_NestedValueRejected(t *testing.T) {
	_, err := parseRefs([]byte("sales:\n  - city: {street: main}\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "scalar")
}
