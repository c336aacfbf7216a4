package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "ranks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteMissingTabIsNil(t *testing.T) {
	st := openTestStore(t)
	rows, err := st.GetAllRows(context.Background(), "Nope_2026-08-24")
	require.NoError(t, err)
	assert.Nil(t, rows, "absent tab is informational, not an error")
}

func TestSQLiteWriteReadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	tab := "Shorts_2026-08-24"

	require.NoError(t, st.EnsureTab(ctx, tab))
	require.NoError(t, st.WriteHeader(ctx, tab, []string{"A", "B"}))
	require.NoError(t, st.AppendRows(ctx, tab, [][]string{
		{"1", "one"},
		{"2", "two"},
	}))
	require.NoError(t, st.AppendRows(ctx, tab, [][]string{{"3", "three"}}))

	rows, err := st.GetAllRows(ctx, tab)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"A", "B"}, rows[0])
	assert.Equal(t, []string{"3", "three"}, rows[3])
}

func TestSQLiteClearKeepsTab(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	tab := "Videos_2026-08-24"

	require.NoError(t, st.EnsureTab(ctx, tab))
	require.NoError(t, st.WriteHeader(ctx, tab, []string{"H"}))
	require.NoError(t, st.AppendRows(ctx, tab, [][]string{{"x"}}))
	require.NoError(t, st.Clear(ctx, tab))

	rows, err := st.GetAllRows(ctx, tab)
	require.NoError(t, err)
	assert.Empty(t, rows, "cleared tab has no rows")

	// Tab still exists: rows come back as empty, not nil-for-missing.
	require.NoError(t, st.WriteHeader(ctx, tab, []string{"H2"}))
	rows, err = st.GetAllRows(ctx, tab)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"H2"}, rows[0])
}

func TestSQLiteHeaderRewriteInPlace(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	tab := "Keywords"

	require.NoError(t, st.EnsureTab(ctx, tab))
	require.NoError(t, st.WriteHeader(ctx, tab, []string{"Old"}))
	require.NoError(t, st.AppendRows(ctx, tab, [][]string{{"kw"}}))
	require.NoError(t, st.WriteHeader(ctx, tab, []string{"New"}))

	rows, err := st.GetAllRows(ctx, tab)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"New"}, rows[0])
	assert.Equal(t, []string{"kw"}, rows[1])
}

func TestSQLiteEnsureTabIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.EnsureTab(ctx, "T"))
	require.NoError(t, st.EnsureTab(ctx, "T"))
	require.NoError(t, st.AppendRows(ctx, "T", [][]string{{"a"}}))
	rows, err := st.GetAllRows(ctx, "T")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSQLiteTabsAreIsolated(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.EnsureTab(ctx, "A"))
	require.NoError(t, st.EnsureTab(ctx, "B"))
	require.NoError(t, st.AppendRows(ctx, "A", [][]string{{"a"}}))
	require.NoError(t, st.AppendRows(ctx, "B", [][]string{{"b1"}, {"b2"}}))

	a, err := st.GetAllRows(ctx, "A")
	require.NoError(t, err)
	b, err := st.GetAllRows(ctx, "B")
	require.NoError(t, err)
	assert.Len(t, a, 1)
	assert.Len(t, b, 2)
}
