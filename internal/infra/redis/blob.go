package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blob persists progress blobs in Redis. A zero TTL keeps keys forever, which
// is the default for progress data; callers that want expiring blobs pass a
// positive TTL.
type Blob struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBlob(client *redis.Client, ttl time.Duration) *Blob {
	return &Blob{client: client, ttl: ttl}
}

func (b *Blob) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *Blob) Set(ctx context.Context, key string, data []byte) error {
	return b.client.Set(ctx, key, data, b.ttl).Err()
}
