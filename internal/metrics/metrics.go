// Package metrics collects Prometheus metrics for HTTP traffic, the page cache and social actions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application's metrics. A nil *Collector records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	follows         *prometheus.CounterVec
	comments        *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		gatherer: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatube_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yatube_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatube_page_cache_lookups_total",
				Help: "Page cache lookups by result",
			},
			[]string{"result"},
		),
		follows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatube_follow_changes_total",
				Help: "Follow edges created or removed",
			},
			[]string{"action"},
		),
		comments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yatube_comments_created_total",
				Help: "Comments stored, split by whether the censor masked them",
			},
			[]string{"censored"},
		),
	}

	reg.MustRegister(c.requests, c.requestDuration, c.cacheLookups, c.follows, c.comments)
	return c
}

// ObserveRequest records one finished request.
func (c *Collector) ObserveRequest(route, method string, status int, d time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// CacheHit records a page served from cache.
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a page rendered because it was not cached.
func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues("miss").Inc()
}

// FollowChanged records a follow or unfollow that changed an edge.
func (c *Collector) FollowChanged(action string) {
	if c == nil {
		return
	}
	c.follows.WithLabelValues(action).Inc()
}

// CommentCreated records a stored comment.
func (c *Collector) CommentCreated(censored bool) {
	if c == nil {
		return
	}
	c.comments.WithLabelValues(strconv.FormatBool(censored)).Inc()
}

// Middleware observes every request by its route template.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		c.ObserveRequest(ctx.FullPath(), ctx.Request.Method, ctx.Writer.Status(), time.Since(start))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
