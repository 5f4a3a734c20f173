// Package widget builds the in-page calculator (cmd/unitstool-widget) to
// WebAssembly and installs it, with the Go runtime shim, into a static asset
// directory.
package widget

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/logfields"
)

const (
	// WasmFile is the compiled widget, fetched by widget.js.
	WasmFile = "widget.wasm"
	// ExecFile is the Go WebAssembly runtime shim loaded before widget.js.
	ExecFile = "wasm_exec.js"
	// DefaultPackage is the import path of the widget command.
	DefaultPackage = "github.com/mmonline245-max/unitstool/cmd/unitstool-widget"
)

// Assets lists the files a site needs for the calculator to run.
var Assets = []string{ExecFile, WasmFile}

// Missing returns the widget assets absent from publicDir.
func Missing(publicDir string) []string {
	var missing []string
	for _, name := range Assets {
		if _, err := os.Stat(filepath.Join(publicDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// Toolchain compiles the widget. GoToolchain shells out to the go command;
// tests substitute a fake.
type Toolchain interface {
	// BuildWasm compiles pkg for js/wasm from inside dir, writing out.
	BuildWasm(ctx context.Context, dir, pkg, out string) error
	// GOROOT reports the toolchain root holding wasm_exec.js.
	GOROOT(ctx context.Context) (string, error)
}

// GoToolchain invokes the go binary found on PATH (or at Path).
type GoToolchain struct {
	Path string
}

func (g GoToolchain) binary() (string, error) {
	name := g.Path
	if name == "" {
		name = "go"
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return "", derrors.NotFoundError("go toolchain not found").
			WithContext("binary", name).
			WithCause(err).
			Build()
	}
	return bin, nil
}

func (g GoToolchain) BuildWasm(ctx context.Context, dir, pkg, out string) error {
	bin, err := g.binary()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, bin, "build", "-trimpath", "-o", out, pkg)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return derrors.BuildError("widget compilation failed").
			WithContext("package", pkg).
			WithContext("output", strings.TrimSpace(stderr.String())).
			WithCause(err).
			Build()
	}
	return nil
}

func (g GoToolchain) GOROOT(ctx context.Context) (string, error) {
	bin, err := g.binary()
	if err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, bin, "env", "GOROOT").Output()
	if err != nil {
		return "", derrors.BuildError("go env GOROOT failed").WithCause(err).Build()
	}
	return strings.TrimSpace(string(out)), nil
}

// InstallOptions says what to build and where to put it.
type InstallOptions struct {
	SourceDir string // module checkout the package is built from
	Package   string // defaults to DefaultPackage
	PublicDir string
	Logger    *slog.Logger
}

// Install compiles the widget into PublicDir/widget.wasm and copies the
// matching wasm_exec.js next to it. It returns the files written.
func Install(ctx context.Context, tc Toolchain, opts InstallOptions) ([]string, error) {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if err := os.MkdirAll(opts.PublicDir, 0o755); err != nil {
		return nil, derrors.FileSystemError("failed to create static asset directory").
			WithContext("path", opts.PublicDir).
			WithCause(err).
			Build()
	}

	wasmPath, err := filepath.Abs(filepath.Join(opts.PublicDir, WasmFile))
	if err != nil {
		return nil, derrors.FileSystemError("cannot resolve widget output").WithCause(err).Build()
	}
	opts.Logger.InfoContext(ctx, "Compiling calculator widget",
		"package", opts.Package,
		logfields.Path(wasmPath))
	if err := tc.BuildWasm(ctx, opts.SourceDir, opts.Package, wasmPath); err != nil {
		return nil, err
	}
	if err := os.Chmod(wasmPath, 0o644); err != nil { //nolint:gosec // served as a static asset
		return nil, derrors.FileSystemError("failed to set widget permissions").WithCause(err).Build()
	}

	goroot, err := tc.GOROOT(ctx)
	if err != nil {
		return nil, err
	}
	shim, err := readExecShim(goroot)
	if err != nil {
		return nil, err
	}
	execPath := filepath.Join(opts.PublicDir, ExecFile)
	if err := atomic.WriteFile(execPath, bytes.NewReader(shim)); err != nil {
		return nil, derrors.FileSystemError("failed to write wasm_exec.js").
			WithContext("path", execPath).
			WithCause(err).
			Build()
	}
	if err := os.Chmod(execPath, 0o644); err != nil { //nolint:gosec // served as a static asset
		return nil, derrors.FileSystemError("failed to set shim permissions").WithCause(err).Build()
	}
	return []string{wasmPath, execPath}, nil
}

// readExecShim finds wasm_exec.js under goroot: lib/wasm since Go 1.24,
// misc/wasm before that.
func readExecShim(goroot string) ([]byte, error) {
	for _, dir := range []string{"lib/wasm", "misc/wasm"} {
		path := filepath.Join(goroot, filepath.FromSlash(dir), ExecFile)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.FileSystemError("failed to read wasm_exec.js").
				WithContext("path", path).
				WithCause(err).
				Build()
		}
	}
	return nil, derrors.NotFoundError("wasm_exec.js not found in GOROOT").
		WithContext("goroot", goroot).
		Build()
}
