// Package render turns a named page template and a page context into HTML.
//
// Templates come from a directory on disk or, when none is configured, from
// the set compiled into the binary. Every call reads and parses its template
// again, so edits show up on the next build without a restart.
package render

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"os"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

// Page template names.
const (
	TemplateIndex = "index.html"
	TemplateTool  = "tool.html"
	TemplateBlog  = "blog.html"
	TemplatePost  = "post.html"
)

//go:embed templates/*.html
var builtin embed.FS

// Builtin returns the embedded default templates.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer executes page templates.
type Renderer struct {
	fsys fs.FS
}

// New returns a Renderer reading templates from dir, or the built-in set
// when dir is empty.
func New(dir string) *Renderer {
	if dir == "" {
		return &Renderer{fsys: Builtin()}
	}
	return &Renderer{fsys: os.DirFS(dir)}
}

// NewFS returns a Renderer over an arbitrary filesystem.
func NewFS(fsys fs.FS) *Renderer {
	return &Renderer{fsys: fsys}
}

// Render executes the template called name against data.
func (r *Renderer) Render(name string, data PageData) (string, error) {
	src, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		msg := "failed to read template"
		if errors.Is(err, fs.ErrNotExist) {
			msg = "template not found"
		}
		return "", derrors.WrapError(err, derrors.CategoryTemplate, msg).
			WithContext("template", name).
			Fatal().
			Build()
	}

	tpl, err := template.New(name).Funcs(funcMap(data.Site)).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return "", derrors.TemplateError("parse template").
			WithCause(err).
			WithContext("template", name).
			Build()
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", derrors.TemplateError("render template").
			WithCause(err).
			WithContext("template", name).
			Build()
	}
	return buf.String(), nil
}
