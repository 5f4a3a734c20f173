package config

import (
	"os"
	"path/filepath"
	"strings"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

// validateOutput guards the directory the build wipes. The output must not
// be, or contain, the working directory, the config directory or any input,
// and must not sit inside the static asset tree it is copied from.
func validateOutput(cfg *Config) error {
	if strings.TrimSpace(cfg.Paths.Output) == "" {
		return invalid("paths.output must not be empty", "paths.output", cfg.Paths.Output)
	}
	out, err := absPath(cfg.Paths.Output)
	if err != nil {
		return err
	}
	if out == filepath.Dir(out) {
		return invalid("paths.output must not be a filesystem root", "paths.output", out)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return derrors.FileSystemError("failed to resolve working directory").WithCause(err).Build()
	}
	protected := []struct{ field, path string }{
		{"working directory", cwd},
		{"config directory", cfg.Dir},
		{"paths.tools", cfg.Paths.Tools},
		{"paths.blog", cfg.Paths.Blog},
		{"paths.public", cfg.Paths.Public},
		{"paths.templates", cfg.Paths.Templates},
		{"history.path", cfg.History.Path},
	}
	for _, p := range protected {
		if p.path == "" {
			continue
		}
		abs, err := absPath(p.path)
		if err != nil {
			return err
		}
		if within(out, abs) {
			return derrors.ValidationError("paths.output would delete "+p.field).
				WithContext("field", "paths.output").
				WithContext("value", out).
				WithContext("conflict", abs).
				Build()
		}
	}

	if cfg.Paths.Public != "" {
		public, err := absPath(cfg.Paths.Public)
		if err != nil {
			return err
		}
		if within(public, out) {
			return invalid("paths.output must not be inside paths.public", "paths.output", out)
		}
	}
	return nil
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryValidation, "cannot resolve path").
			WithContext("path", p).
			Build()
	}
	return abs, nil
}

// within reports whether child is parent or lies below it. Both are absolute.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
