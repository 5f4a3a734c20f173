package site

import (
	"context"
	"errors"
	"io/fs"
	"os"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/widget"
)

// stagePrepareOutput wipes the output directory and copies the static assets.
func stagePrepareOutput(ctx context.Context, bs *BuildState) error {
	out := bs.Options.OutputDir
	if err := os.RemoveAll(out); err != nil {
		return derrors.FileSystemError("failed to clear output directory").WithCause(err).
			WithContext("path", out).
			Build()
	}
	if err := os.MkdirAll(out, dirMode); err != nil {
		return derrors.FileSystemError("failed to create output directory").WithCause(err).
			WithContext("path", out).
			Build()
	}

	public := bs.Options.PublicDir
	if public == "" {
		return nil
	}
	bs.checkWidgetAssets(ctx, public)
	if _, err := os.Stat(public); errors.Is(err, fs.ErrNotExist) {
		bs.logger.WarnContext(ctx, "Static asset directory not found, nothing copied", logfields.Path(public))
		return nil
	}

	n, err := CopyTree(ctx, public, out)
	if err != nil {
		return err
	}
	bs.logger.DebugContext(ctx, "Copied static assets", logfields.Path(public), logfields.Count(n))
	return nil
}

func (bs *BuildState) checkWidgetAssets(ctx context.Context, public string) {
	missing := widget.Missing(public)
	if len(missing) == 0 {
		return
	}
	bs.Report.MissingAssets = missing
	bs.logger.WarnContext(ctx, "Calculator widget assets missing; run 'unitstool widget' to build them",
		logfields.Path(public),
		"missing", missing)
}
