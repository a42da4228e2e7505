// Package web holds the HTML templates, embedded into the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"time"

	"yatube/internal/models"
	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

//go:embed templates
var templatesFS embed.FS

// Shared parts parsed into every view.
var shared = []string{
	"templates/layouts/*.html",
	"templates/includes/*.html",
	"templates/components/*.html",
}

// Views maps the name handlers render by to its file under templates/views.
var Views = map[string]string{
	"posts/index.html":       "posts/index.html",
	"posts/group_list.html":  "posts/group_list.html",
	"posts/profile.html":     "posts/profile.html",
	"posts/post_detail.html": "posts/post_detail.html",
	"posts/create_post.html": "posts/create_post.html",
	"posts/follow.html":      "posts/follow.html",

	"users/signup.html":               "users/signup.html",
	"users/login.html":                "users/login.html",
	"users/logged_out.html":           "users/logged_out.html",
	"users/password_change_form.html": "users/password_change_form.html",
	"users/password_change_done.html": "users/password_change_done.html",

	"users/password_reset_form.html":     "users/password_reset_form.html",
	"users/password_reset_done.html":     "users/password_reset_done.html",
	"users/password_reset_confirm.html":  "users/password_reset_confirm.html",
	"users/password_reset_complete.html": "users/password_reset_complete.html",

	"about/author.html": "about/author.html",
	"about/tech.html":   "about/tech.html",

	"core/error.html": "core/error.html",
}

// FuncMap is available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02.01.2006 15:04")
		},
		"renderText": utils.RenderText,
		"authorName": func(u models.User) string {
			return u.FullName()
		},
		"mediaURL": func(rel string) string {
			if rel == "" {
				return ""
			}
			return "/media/" + rel
		},
		"idString": func(id uint) string {
			return fmt.Sprint(id)
		},
		"urlquery": func(s string) string {
			return url.QueryEscape(s)
		},
	}
}

// EmailFS holds the plain-text email templates.
func EmailFS() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates/email")
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadTemplates parses every view together with the shared layout parts.
func LoadTemplates() (multitemplate.Renderer, error) {
	return loadTemplates(templatesFS)
}

func loadTemplates(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()
	funcs := FuncMap()

	for name, file := range Views {
		patterns := append(append([]string{}, shared...), "templates/views/"+file)
		// The root is named after the layout file, so executing the set runs the layout.
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.Add(name, tmpl)
	}
	return r, nil
}
