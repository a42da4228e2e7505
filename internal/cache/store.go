// Package cache implements the rendered-page cache and its storage backends.
package cache

import (
	"context"
	"time"
)

// Entry is a cached response body.
type Entry struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store keeps entries until they expire or Clear is called.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration)
	Clear(ctx context.Context) error
}
