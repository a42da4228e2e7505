package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem 包装缓存数据和过期时间
type cacheItem struct {
	Entry     Entry
	ExpiresAt time.Time
}

// LRUStore is an in-process Store bounded by entry count.
type LRUStore struct {
	lruCache *lru.Cache[string, cacheItem]
	now      func() time.Time
}

// NewLRUStore creates a store holding at most size entries.
func NewLRUStore(size int) (*LRUStore, error) {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, fmt.Errorf("create LRU cache: %w", err)
	}
	return &LRUStore{lruCache: l, now: time.Now}, nil
}

func (s *LRUStore) Set(_ context.Context, key string, entry Entry, ttl time.Duration) {
	s.lruCache.Add(key, cacheItem{
		Entry:     entry,
		ExpiresAt: s.now().Add(ttl),
	})
}

func (s *LRUStore) Get(_ context.Context, key string) (Entry, bool) {
	val, ok := s.lruCache.Get(key)
	if !ok {
		return Entry{}, false
	}

	// 检查过期
	if s.now().After(val.ExpiresAt) {
		s.lruCache.Remove(key)
		return Entry{}, false
	}
	return val.Entry, true
}

func (s *LRUStore) Clear(context.Context) error {
	s.lruCache.Purge()
	return nil
}
