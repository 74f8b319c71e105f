package record

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndListRecent(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := db.Insert(&RunSummary{
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
			Seed:         int64(100 + i),
			Ticks:        3600,
			Roads:        50,
			Buildings:    180,
			Ignited:      4,
			Extinguished: 2,
			Destroyed:    1,
			Score:        150,
		})
		require.NoError(t, err)
	}

	runs, err := db.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(102), runs[0].Seed)
	assert.Equal(t, int64(101), runs[1].Seed)
	assert.Equal(t, 180, runs[0].Buildings)
	assert.Equal(t, 150, runs[0].Score)
}

func TestInsert_FillsIDAndTimestamp(t *testing.T) {
	db := openTestDB(t)

	r := &RunSummary{Seed: 7, Ticks: 60}
	require.NoError(t, db.Insert(r))

	assert.NotEmpty(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	runs, err := db.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, r.ID, runs[0].ID)
}

func TestBySeed(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Insert(&RunSummary{Seed: 1, Ticks: 60}))
	require.NoError(t, db.Insert(&RunSummary{Seed: 2, Ticks: 60}))
	require.NoError(t, db.Insert(&RunSummary{Seed: 1, Ticks: 120}))

	runs, err := db.BySeed(1)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, int64(1), r.Seed)
	}

	none, err := db.BySeed(99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(&RunSummary{Seed: 42, Ticks: 600, Score: 100}))
	require.NoError(t, db.Close())

	db2, err := Open(path)
	require.NoError(t, err)
	defer db2.Close()

	runs, err := db2.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(42), runs[0].Seed)
	assert.Equal(t, 100, runs[0].Score)
}
