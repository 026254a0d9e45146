// Package leaderboard keeps a process-wide high-water-mark balance per
// identity. Entries are appended on first sight and only ever improve;
// nothing is persisted across restarts.
package leaderboard

import (
	"sort"
	"sync"
)

// Entry is one identity's best recorded balance
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"username"`
	BestBalance int    `json:"balance"`
}

// Board is a concurrency-safe leaderboard
type Board struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty board
func New() *Board {
	return &Board{entries: make(map[string]*Entry)}
}

// Record updates the entry for id if balance improves on the recorded
// best (or the id is new). Returns true when the board changed.
func (b *Board) Record(id, name string, balance int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[id]
	if !ok {
		b.entries[id] = &Entry{ID: id, Name: name, BestBalance: balance}
		return true
	}
	if balance > entry.BestBalance {
		entry.BestBalance = balance
		entry.Name = name
		return true
	}
	return false
}

// Entries returns a snapshot sorted by best balance descending
func (b *Board) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BestBalance != out[j].BestBalance {
			return out[i].BestBalance > out[j].BestBalance
		}
		return out[i].ID < out[j].ID
	})
	return out
}
