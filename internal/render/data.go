package render

import (
	"fmt"
	"time"

	"github.com/mmonline245-max/unitstool/internal/content"
)

// Site is the site-wide context every page receives.
type Site struct {
	Name        string
	Domain      string
	Tagline     string
	Description string
	Scheme      string
}

// BaseURL is scheme://domain, defaulting the scheme to https.
func (s Site) BaseURL() string {
	scheme := s.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, s.Domain)
}

// PageData is the context of one page. Fields a page kind does not use are
// left zero.
type PageData struct {
	Site      Site
	BuildTime time.Time

	Tools           []content.Tool
	Categories      []content.Category
	CurrentCategory *content.Category
	Tool            *content.Tool

	Posts []content.Post
	Post  *content.Post
}
