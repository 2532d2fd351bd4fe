package local

import (
	"sync"

	"github.com/maxviazov/squad-manager-service/internal/repository"
)

type memoryBackend struct {
	mu   sync.RWMutex
	data map[repository.Collection][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Store {
	return &Store{b: &memoryBackend{data: map[repository.Collection][]byte{}}}
}

func (m *memoryBackend) read(c repository.Collection) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.data[c]), nil
}

func (m *memoryBackend) write(batch map[repository.Collection][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for c, raw := range batch {
		m.data[c] = raw
	}
	return nil
}

func (m *memoryBackend) ping() error { return nil }
