package render

import (
	"html/template"
	"strings"
	"time"

	"github.com/mmonline245-max/unitstool/internal/content"
	"github.com/mmonline245-max/unitstool/internal/slug"
)

// ToolURL is the site path of a tool page.
func ToolURL(t content.Tool) string { return "/tools/" + t.Slug() + ".html" }

// PostURL is the site path of a blog post.
func PostURL(p content.Post) string { return "/blog/" + p.Slug + ".html" }

// CategoryURL is the site path of a category listing.
func CategoryURL(name string) string { return "/category-" + slug.Make(name) + ".html" }

// AbsURL joins path onto the site base URL.
func AbsURL(site Site, path string) string {
	return site.BaseURL() + "/" + strings.TrimPrefix(path, "/")
}

func funcMap(site Site) template.FuncMap {
	return template.FuncMap{
		"slug":        slug.Make,
		"absURL":      func(path string) string { return AbsURL(site, path) },
		"toolURL":     ToolURL,
		"postURL":     PostURL,
		"categoryURL": CategoryURL,
		"formatDate": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
	}
}
