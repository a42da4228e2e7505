package cache

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Observer is told about cache hits and misses.
type Observer interface {
	CacheHit()
	CacheMiss()
}

// VaryFunc returns the part of the cache key that depends on who is asking.
type VaryFunc func(c *gin.Context) string

// PageCache stores whole rendered GET responses keyed by path and query.
// Entries live until their TTL passes or Invalidate is called; a change made
// without calling Invalidate stays invisible for up to one TTL.
type PageCache struct {
	store    Store
	ttl      time.Duration
	vary     VaryFunc
	observer Observer
}

// NewPageCache creates a page cache. vary and observer may be nil.
func NewPageCache(store Store, ttl time.Duration, vary VaryFunc, observer Observer) *PageCache {
	return &PageCache{store: store, ttl: ttl, vary: vary, observer: observer}
}

// Key builds the cache key for a request.
func (p *PageCache) Key(c *gin.Context) string {
	viewer := ""
	if p.vary != nil {
		viewer = p.vary(c)
	}
	return viewer + "|" + c.Request.URL.Path + "?" + c.Request.URL.RawQuery
}

// Invalidate drops every cached page.
func (p *PageCache) Invalidate(ctx context.Context) {
	if err := p.store.Clear(ctx); err != nil {
		log.WithError(err).Warn("page cache invalidation failed")
	}
}

// Middleware serves cached copies of successful GET responses.
func (p *PageCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := p.Key(c)
		if entry, ok := p.store.Get(ctx, key); ok {
			if p.observer != nil {
				p.observer.CacheHit()
			}
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, entry.ContentType, entry.Body)
			c.Abort()
			return
		}
		if p.observer != nil {
			p.observer.CacheMiss()
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header("X-Cache", "MISS")
		c.Next()

		if rec.Status() == http.StatusOK && rec.body.Len() > 0 {
			p.store.Set(ctx, key, Entry{
				ContentType: rec.Header().Get("Content-Type"),
				Body:        bytes.Clone(rec.body.Bytes()),
			}, p.ttl)
		}
	}
}

// bodyRecorder copies everything written to the client.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
