// Package content reads the site inputs: the tool catalogue from a JSON file
// and blog posts from a directory of markdown files with a metadata header.
package content

import (
	"log/slog"

	"github.com/mmonline245-max/unitstool/internal/markdown"
)

// Options configures a Store.
type Options struct {
	ToolsPath     string
	BlogDir       string
	ExcerptLength int
	UnsafeHTML    bool
	Logger        *slog.Logger
}

// Store loads tools and posts. It holds no state between calls, so every
// load observes the current files on disk.
type Store struct {
	toolsPath  string
	blogDir    string
	excerptLen int
	md         *markdown.Converter
	logger     *slog.Logger
}

// NewStore creates a Store for opts.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		toolsPath:  opts.ToolsPath,
		blogDir:    opts.BlogDir,
		excerptLen: opts.ExcerptLength,
		md:         markdown.NewConverter(markdown.Options{Unsafe: opts.UnsafeHTML}),
		logger:     logger,
	}
}
