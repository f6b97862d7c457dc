package store

import "sync"

// Memory is an in-process Store, mainly useful for tests and single-binary
// deployments that can afford to lose the cache on restart.
type Memory struct {
	mutex   sync.RWMutex
	entries map[string]*Entry
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*Entry),
	}
}

func (m *Memory) Read(key string) (*Entry, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return entry, true, nil
}

func (m *Memory) Write(key string, entry *Entry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.entries[key] = entry
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.entries)
}
