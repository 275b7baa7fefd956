// Package storage provides persistence backends for the playlist collection.
//
// The collection is stored as one serialized text blob under a single
// well-known key (the browser-local-storage model). Backends implement
// [store.Storage]: an in-memory blob for tests, an atomic whole-file writer,
// and a SQLite key/value table with schema migrations.
package storage

import (
	"sync"

	"github.com/cratefm/crate/internal/store"
)

var (
	_ store.Storage = (*Memory)(nil)
	_ store.Storage = (*File)(nil)
	_ store.Storage = (*SQLite)(nil)
)

// Memory is an in-memory blob, used in tests and ephemeral sessions.
//
// It counts Save calls so tests can assert write suppression.
type Memory struct {
	mu    sync.Mutex
	value string
	saves int
}

// NewMemory creates a Memory backend seeded with the given blob.
func NewMemory(seed string) *Memory {
	return &Memory{value: seed}
}

// Load returns the current blob.
func (m *Memory) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

// Save replaces the blob.
func (m *Memory) Save(value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	m.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
