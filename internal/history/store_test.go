package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for history store:
// - Open creates the database and schema, reopening is idempotent
// - Record assigns ids and stamps created_at when empty
// - List returns entries newest first
// - Prune keeps the newest N entries and returns pruned paths
// - Prune rejects negative keep

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), ".apidrift", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_CreatesSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".apidrift", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening an existing database must not fail.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)

	id, err := store.Record(Entry{
		Path:         "snapshot-main.json",
		GitRef:       "main",
		GitSha:       "abc1234",
		TSConfigPath: "tsconfig.json",
		CreatedAt:    "2026-08-01T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = store.Record(Entry{
		Path:         "snapshot-v2.json",
		GitRef:       "v2.0.0",
		TSConfigPath: "tsconfig.json",
		CreatedAt:    "2026-08-02T10:00:00Z",
	})
	require.NoError(t, err)

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "snapshot-v2.json", entries[0].Path, "newest first")
	assert.Equal(t, "snapshot-main.json", entries[1].Path)
	assert.Equal(t, "abc1234", entries[1].GitSha)
}

func TestRecord_StampsCreatedAt(t *testing.T) {
	store := openStore(t)

	_, err := store.Record(Entry{Path: "s.json", TSConfigPath: "tsconfig.json"})
	require.NoError(t, err)

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].CreatedAt)
}

func TestPrune(t *testing.T) {
	store := openStore(t)

	for i, created := range []string{
		"2026-08-01T10:00:00Z",
		"2026-08-02T10:00:00Z",
		"2026-08-03T10:00:00Z",
	} {
		_, err := store.Record(Entry{
			Path:         []string{"old.json", "mid.json", "new.json"}[i],
			TSConfigPath: "tsconfig.json",
			CreatedAt:    created,
		})
		require.NoError(t, err)
	}

	pruned, err := store.Prune(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old.json", "mid.json"}, pruned)

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new.json", entries[0].Path)
}

func TestPrune_KeepAll(t *testing.T) {
	store := openStore(t)
	_, err := store.Record(Entry{Path: "s.json", TSConfigPath: "tsconfig.json"})
	require.NoError(t, err)

	pruned, err := store.Prune(10)
	require.NoError(t, err)
	assert.Empty(t, pruned)
}

func TestPrune_NegativeKeep(t *testing.T) {
	store := openStore(t)
	_, err := store.Prune(-1)
	assert.Error(t, err)
}
