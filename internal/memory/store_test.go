package memory_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outage-feed-etl/internal/memory"
)

func openTestStore(t *testing.T) (*memory.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := memory.Open(dir, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func TestStore_SeedCreatesZeroRows(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, store.Seed([]string{"Calvert", "Charles", "St. Mary's"}))

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Calvert": 0, "Charles": 0, "St. Mary's": 0}, snap)
}

func TestStore_SeedDoesNotOverwriteExisting(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, store.Put("Calvert", 12000))
	require.NoError(t, store.Seed([]string{"Calvert", "Charles"}))

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 12000, snap["Calvert"])
	assert.Equal(t, 0, snap["Charles"])
}

func TestStore_WritesSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := memory.Open(dir, slog.Default())
	require.NoError(t, err)
	require.NoError(t, store.Put("St. Mary's", 54321))
	require.NoError(t, store.Close())

	// a fresh process next cycle must see this cycle's writes
	reopened, err := memory.Open(dir, slog.Default())
	require.NoError(t, err)
	defer reopened.Close()

	snap, err := reopened.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 54321, snap["St. Mary's"])
}

func TestStore_PutOverwrites(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, store.Put("Charles", 100))
	require.NoError(t, store.Put("Charles", 250))

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 250, snap["Charles"])
}
