package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"yatube/internal/repository"

	"github.com/gin-gonic/gin"
)

// sitemapPostLimit caps how many recent posts the sitemap lists.
const sitemapPostLimit = 500

type SEOHandler struct {
	groups repository.GroupRepository
	posts  repository.PostRepository
}

func NewSEOHandler(groups repository.GroupRepository, posts repository.PostRepository) *SEOHandler {
	return &SEOHandler{groups: groups, posts: posts}
}

// siteURL derives the public origin from the request.
func siteURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// RobotsTxt keeps crawlers out of account and form pages.
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /auth/
Disallow: /create/
Disallow: /follow/
Disallow: /metrics

Sitemap: %s/sitemap.xml
`, siteURL(c))

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML lists the home page, every group and the most recent posts.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	groups, err := h.groups.List(ctx)
	if err != nil {
		RenderAppError(c, err)
		return
	}
	posts, err := h.posts.ListAll(ctx, 0, sitemapPostLimit)
	if err != nil {
		RenderAppError(c, err)
		return
	}

	base := siteURL(c)
	now := time.Now().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)
	writeURL := func(loc, lastmod, changefreq string, priority float64) {
		fmt.Fprintf(&b, `  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, html.EscapeString(loc), lastmod, changefreq, priority)
	}

	writeURL(base+"/", now, "hourly", 1.0)
	for _, g := range groups {
		writeURL(base+"/group/"+g.Slug+"/", now, "daily", 0.7)
	}
	for _, p := range posts {
		priority := 0.6
		if time.Since(p.CreatedAt) < 7*24*time.Hour {
			priority = 0.8
		}
		writeURL(fmt.Sprintf("%s/posts/%d/", base, p.ID), p.UpdatedAt.Format("2006-01-02"), "weekly", priority)
	}
	b.WriteString(`</urlset>`)

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}
