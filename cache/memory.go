package cache

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Memory implements Store in process memory. Lists grow without bound and
// are only released with the Memory itself.
//
// The lock keeps the map consistent, but the order of entries appended by
// concurrent callers to the same category is not defined.
type Memory struct {
	mu      sync.Mutex
	entries map[Category][]Entry
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[Category][]Entry),
	}
}

// Record appends entry to category
func (m *Memory) Record(category Category, entry Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[category] = append(m.entries[category], entry)
	logrus.Debugf("Cached %s entry under %s (%d total)", entry.Kind(), category, len(m.entries[category]))
}

// Get returns a copy of the list recorded under category
func (m *Memory) Get(category Category) ([]Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, ok := m.entries[category]
	if !ok {
		return nil, false
	}
	return append([]Entry(nil), list...), true
}

// All returns a copy of the whole mapping
func (m *Memory) All() map[Category][]Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make(map[Category][]Entry, len(m.entries))
	for category, list := range m.entries {
		all[category] = append([]Entry(nil), list...)
	}
	return all
}
