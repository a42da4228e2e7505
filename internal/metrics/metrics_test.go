package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.CacheHit()
	c.CacheHit()
	c.CacheMiss()
	c.FollowChanged("follow")
	c.CommentCreated(true)
	c.ObserveRequest("/", http.MethodGet, http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.follows.WithLabelValues("follow")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.comments.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("/", "GET", "200")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.CacheHit()
		c.CacheMiss()
		c.FollowChanged("unfollow")
		c.CommentCreated(false)
		c.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)
	})
}

func TestCollector_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector(prometheus.NewRegistry())

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/group/:slug/", func(ctx *gin.Context) { ctx.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(c.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/group/cats/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("/group/:slug/", "GET", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "yatube_http_requests_total")
}
