package site

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

const (
	dirMode  fs.FileMode = 0o755
	fileMode fs.FileMode = 0o644
)

// writeFile atomically writes r to path, creating parent directories.
func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return derrors.FileSystemError("failed to create output directory").WithCause(err).
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	if err := atomic.WriteFile(path, r); err != nil {
		return derrors.FileSystemError("failed to write output file").WithCause(err).
			WithContext("path", path).
			Build()
	}
	// atomic.WriteFile leaves new files 0600; output is meant to be served
	if err := os.Chmod(path, fileMode); err != nil {
		return derrors.FileSystemError("failed to set output file mode").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

// writeOutput writes data to rel (slash separated) below the output dir.
func (bs *BuildState) writeOutput(rel string, data []byte) error {
	return writeFile(filepath.Join(bs.Options.OutputDir, filepath.FromSlash(rel)), bytes.NewReader(data))
}

// CopyTree copies every regular file below src into dst, keeping the
// relative layout. Symlinks and other special files are skipped.
func CopyTree(ctx context.Context, src, dst string) (int, error) {
	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, dirMode)
		case !d.Type().IsRegular():
			return nil
		}

		f, err := os.Open(path) //nolint:gosec // walking the configured static asset tree
		if err != nil {
			return err
		}
		defer f.Close()
		if err := writeFile(target, f); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		if derrors.IsClassified(err) || ctx.Err() != nil {
			return copied, err
		}
		return copied, derrors.FileSystemError("failed to copy static assets").WithCause(err).
			WithContext("path", src).
			Build()
	}
	return copied, nil
}

// forEach runs fn for every item with at most limit in flight. The first
// error cancels the rest and is returned after all started calls finish.
func forEach[T any](ctx context.Context, limit int, items []T, fn func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for _, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, item)
		})
	}
	return g.Wait()
}
