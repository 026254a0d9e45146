package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFirstSight(t *testing.T) {
	b := New()

	changed := b.Record("p1", "Alice", 500)
	assert.True(t, changed)

	entries := b.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, 500, entries[0].BestBalance)
}

func TestRecordOnlyImproves(t *testing.T) {
	b := New()
	b.Record("p1", "Alice", 500)

	assert.False(t, b.Record("p1", "Alice", 300), "lower balance should not change the board")
	assert.Equal(t, 500, b.Entries()[0].BestBalance)

	assert.True(t, b.Record("p1", "Alice", 800))
	assert.Equal(t, 800, b.Entries()[0].BestBalance)
}

func TestEntriesSortedDescending(t *testing.T) {
	b := New()
	b.Record("p1", "Alice", 200)
	b.Record("p2", "Bob", 900)
	b.Record("p3", "Carol", 450)

	entries := b.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Bob", entries[0].Name)
	assert.Equal(t, "Carol", entries[1].Name)
	assert.Equal(t, "Alice", entries[2].Name)
}

func TestRecordUpdatesDisplayName(t *testing.T) {
	b := New()
	b.Record("p1", "Alice", 200)
	b.Record("p1", "Alice2", 300)

	entries := b.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice2", entries[0].Name)
}
