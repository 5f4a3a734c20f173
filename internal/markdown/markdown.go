// Package markdown converts blog post bodies to HTML and derives plain-text
// summaries from the rendered output.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls the goldmark configuration.
type Options struct {
	// Unsafe lets raw HTML in the source pass through to the output.
	Unsafe bool
	// HardWraps turns soft line breaks into <br>.
	HardWraps bool
}

// Converter renders markdown with GitHub-flavoured extensions and generated
// heading IDs. A Converter is safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a Converter for opts.
func NewConverter(opts Options) *Converter {
	var rendererOpts []renderer.Option
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Converter{md: md}
}

// Convert renders source to HTML.
func (c *Converter) Convert(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
