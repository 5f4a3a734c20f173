package content

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/frontmatter"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/markdown"
	"github.com/mmonline245-max/unitstool/internal/slug"
)

// dateLayouts are tried in order when parsing a post date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Post is one rendered blog post.
type Post struct {
	Title string
	// Date is zero when the post declares none.
	Date time.Time
	// DateRaw is the date exactly as declared.
	DateRaw string
	Slug    string
	File    string
	Summary string
	Meta    map[string]string
	HTML    template.HTML
}

// HasDate reports whether the post declared a date.
func (p Post) HasDate() bool { return !p.Date.IsZero() }

// SkippedPost records a file that was left out of the build.
type SkippedPost struct {
	File   string
	Reason string
}

// ParseDate parses a declared post date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// LoadPosts reads every *.md file in the blog directory in file-name order.
// Files without a valid header block or without a title are skipped and
// reported; an unparsable date fails the whole load. The result is sorted
// newest first, undated posts last, ties by file name.
func (s *Store) LoadPosts(ctx context.Context) ([]Post, []SkippedPost, error) {
	entries, err := os.ReadDir(s.blogDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "Blog directory not found, building without posts", logfields.Path(s.blogDir))
			return nil, nil, nil
		}
		return nil, nil, derrors.FileSystemError("failed to list blog directory").WithCause(err).
			WithContext("path", s.blogDir).
			Build()
	}

	var posts []Post
	var skipped []SkippedPost
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		post, reason, err := s.loadPost(entry.Name())
		if err != nil {
			return nil, nil, err
		}
		if reason != "" {
			s.logger.WarnContext(ctx, "Skipping blog post",
				logfields.File(entry.Name()),
				"reason", reason)
			skipped = append(skipped, SkippedPost{File: entry.Name(), Reason: reason})
			continue
		}
		posts = append(posts, post)
	}

	SortPosts(posts)
	return posts, skipped, nil
}

// loadPost returns either a post, a skip reason, or a fatal error.
func (s *Store) loadPost(name string) (Post, string, error) {
	path := filepath.Join(s.blogDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Post{}, "", derrors.FileSystemError("failed to read blog post").WithCause(err).
			WithContext("path", path).
			Build()
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return Post{}, err.Error(), nil
	}

	title := doc.Meta["title"]
	if strings.TrimSpace(title) == "" {
		return Post{}, "missing title", nil
	}

	post := Post{
		Title:   title,
		DateRaw: doc.Meta["date"],
		Slug:    slug.Make(title),
		File:    name,
		Meta:    doc.Meta,
	}
	if post.DateRaw != "" {
		post.Date, err = ParseDate(post.DateRaw)
		if err != nil {
			return Post{}, "", derrors.ContentError("unparsable post date").
				WithCause(err).
				WithContext("file", name).
				WithContext("date", post.DateRaw).
				Build()
		}
	}

	html, err := s.md.Convert(doc.Body)
	if err != nil {
		return Post{}, "", derrors.ContentError("failed to render markdown").
			WithCause(err).
			WithContext("file", name).
			Build()
	}
	post.HTML = template.HTML(html) //nolint:gosec // goldmark output, raw HTML is escaped unless unsafe_html is set

	if desc := strings.TrimSpace(doc.Meta["description"]); desc != "" {
		post.Summary = desc
	} else {
		post.Summary = markdown.Excerpt(html, s.excerptLen)
	}
	return post, "", nil
}

// SortPosts orders posts newest first. Undated posts follow all dated ones
// and equal dates fall back to file name.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		switch {
		case a.HasDate() && !b.HasDate():
			return true
		case !a.HasDate() && b.HasDate():
			return false
		case a.HasDate() && !a.Date.Equal(b.Date):
			return a.Date.After(b.Date)
		default:
			return a.File < b.File
		}
	})
}
