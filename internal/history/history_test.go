package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telephonyinc/incident-forecaster/internal/inference"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)

	dist := inference.Distribution{"P1": 10, "P2": 30, "P3": 40, "P4": 20}
	id, err := store.Record("2024-03-15", "Network", dist)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, "2024-03-15", entry.Date)
	assert.Equal(t, "Network", entry.AssignmentGroup)
	assert.Equal(t, map[string]float64{"P1": 10, "P2": 30, "P3": 40, "P4": 20}, entry.Predictions)
	assert.NotEmpty(t, entry.CreatedAt)
}

func TestRecentLimit(t *testing.T) {
	store := newTestStore(t)

	dist := inference.Distribution{"P1": 25, "P2": 25, "P3": 25, "P4": 25}
	for i := 0; i < 7; i++ {
		_, err := store.Record(fmt.Sprintf("2024-01-%02d", i+1), "Database", dist)
		require.NoError(t, err)
	}

	entries, err := store.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	count, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 7, count)
}

func TestRecentDefaultsOnBadLimit(t *testing.T) {
	store := newTestStore(t)

	dist := inference.Distribution{"P1": 25, "P2": 25, "P3": 25, "P4": 25}
	_, err := store.Record("2024-01-01", "Network", dist)
	require.NoError(t, err)

	for _, limit := range []int{0, -5, 100000} {
		entries, err := store.Recent(limit)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	}
}

func TestRecentEmptyStore(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
