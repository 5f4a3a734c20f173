package commands

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmonline245-max/unitstool/internal/config"
	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/widget"
)

//go:embed skeleton
var skeleton embed.FS

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration and starter files"`

	out io.Writer `kong:"-"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path, _ := root.configPath()
	out := i.out
	if out == nil {
		out = os.Stdout
	}
	return RunInit(out, path, i.Force)
}

// RunInit writes the example configuration at configPath and the starter
// project next to it. Existing starter files are kept unless force is set.
func RunInit(out io.Writer, configPath string, force bool) error {
	_, _ = fmt.Fprintln(out, "Initializing UnitsTool project")
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}

	written, err := writeSkeleton(filepath.Dir(configPath), force)
	if err != nil {
		return err
	}
	for _, rel := range written {
		_, _ = fmt.Fprintf(out, "Created %s\n", rel)
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if missing := widget.Missing(cfg.Paths.Public); len(missing) > 0 {
		_, _ = fmt.Fprintf(out, "Next: run 'unitstool widget --source <unitstool checkout>' to build %s into %s\n",
			strings.Join(missing, " and "), cfg.Paths.Public)
	}
	return nil
}

func writeSkeleton(dir string, force bool) ([]string, error) {
	root, err := fs.Sub(skeleton, "skeleton")
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "missing starter files").Build()
	}

	var written []string
	err = fs.WalkDir(root, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if _, statErr := os.Stat(dst); statErr == nil && !force {
			return nil
		} else if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
			return statErr
		}

		data, err := fs.ReadFile(root, rel)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil { //nolint:gosec // site sources are meant to be world-readable
			return err
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return nil, derrors.FileSystemError("failed to write starter files").WithCause(err).
			WithContext("path", dir).
			Build()
	}
	return written, nil
}
