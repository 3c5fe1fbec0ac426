package vault

import (
	"context"
	"sync"
)

// Compile-time interface satisfaction check.
var _ Storage = (*MemoryStore)(nil)

// MemoryStore is an in-process Storage. It backs tests and keeps records
// in insertion order; keys are not unique, mirroring a table without a
// constraint.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) QueryByKey(_ context.Context, key string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Record
	for _, r := range m.records {
		if r.Key == key {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) Insert(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
	return nil
}

func (m *MemoryStore) UpdateByKey(_ context.Context, key string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].Key == key {
			m.records[i] = rec
		}
	}
	return nil
}

func (m *MemoryStore) DeleteByKey(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	for _, r := range m.records {
		if r.Key != key {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

func (m *MemoryStore) ExistsByKey(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.Key == key {
			return true, nil
		}
	}
	return false, nil
}

// Records returns a copy of everything stored, for inspection in tests.
func (m *MemoryStore) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}
