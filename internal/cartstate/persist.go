package cartstate

import (
	"context"
	"sync"
)

// KeyPrefix namespaces persisted snapshots.
const KeyPrefix = "cart-storage"

// SessionKey is the persistence key for a browsing session.
func SessionKey(sessionID string) string {
	return KeyPrefix + ":" + sessionID
}

// Persister is durable storage for snapshots.
type Persister interface {
	Save(ctx context.Context, key string, data []byte) error
	// Load reports ok=false when nothing is stored under key.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
}

// MemoryPersister keeps snapshots in process memory.
type MemoryPersister struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (m *MemoryPersister) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryPersister) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}
