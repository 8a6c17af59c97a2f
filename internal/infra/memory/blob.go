package memory

import (
	"context"
	"sync"
)

// Blob is an in-memory implementation of progress.Blob. Useful for the
// terminal play mode and for tests; contents vanish with the process.
type Blob struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewBlob() *Blob {
	return &Blob{data: make(map[string][]byte)}
}

func (b *Blob) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, true, nil
}

func (b *Blob) Set(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	b.data[key] = copied
	return nil
}
