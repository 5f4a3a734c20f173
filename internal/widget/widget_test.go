package widget

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/testutil"
)

type stubToolchain struct {
	goroot   string
	buildErr error
	dir, pkg string
}

func (s *stubToolchain) BuildWasm(_ context.Context, dir, pkg, out string) error {
	if s.buildErr != nil {
		return s.buildErr
	}
	s.dir, s.pkg = dir, pkg
	return os.WriteFile(out, []byte("\x00asm"), 0o600)
}

func (s *stubToolchain) GOROOT(context.Context) (string, error) { return s.goroot, nil }

func TestMissing(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, []string{ExecFile, WasmFile}, Missing(dir))
	require.Equal(t, []string{ExecFile, WasmFile}, Missing(filepath.Join(dir, "absent")))

	testutil.WriteTree(t, dir, map[string]string{WasmFile: "x"})
	require.Equal(t, []string{ExecFile}, Missing(dir))
}

func TestInstall(t *testing.T) {
	goroot := t.TempDir()
	testutil.WriteTree(t, goroot, map[string]string{"lib/wasm/wasm_exec.js": "// shim"})
	public := filepath.Join(t.TempDir(), "public")
	tc := &stubToolchain{goroot: goroot}

	written, err := Install(t.Context(), tc, InstallOptions{
		SourceDir: "/src/unitstool",
		PublicDir: public,
		Logger:    testutil.DiscardLogger(),
	})
	require.NoError(t, err)
	require.Len(t, written, 2)
	require.Equal(t, DefaultPackage, tc.pkg)
	require.Equal(t, "/src/unitstool", tc.dir)
	require.Empty(t, Missing(public))

	for _, name := range Assets {
		info, err := os.Stat(filepath.Join(public, name))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	}
	testutil.NewFileAssertions(t, public).Contains(ExecFile, "// shim")
}

func TestInstall_LegacyShimLocation(t *testing.T) {
	goroot := t.TempDir()
	testutil.WriteTree(t, goroot, map[string]string{"misc/wasm/wasm_exec.js": "// old shim"})
	public := t.TempDir()

	_, err := Install(t.Context(), &stubToolchain{goroot: goroot}, InstallOptions{PublicDir: public, Logger: testutil.DiscardLogger()})
	require.NoError(t, err)
	testutil.NewFileAssertions(t, public).Contains(ExecFile, "// old shim")
}

func TestInstall_Errors(t *testing.T) {
	t.Run("shim not in GOROOT", func(t *testing.T) {
		_, err := Install(t.Context(), &stubToolchain{goroot: t.TempDir()}, InstallOptions{PublicDir: t.TempDir(), Logger: testutil.DiscardLogger()})
		require.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
	})

	t.Run("compilation fails", func(t *testing.T) {
		cause := derrors.BuildError("widget compilation failed").WithCause(errors.New("exit status 1")).Build()
		public := t.TempDir()
		_, err := Install(t.Context(), &stubToolchain{buildErr: cause}, InstallOptions{PublicDir: public, Logger: testutil.DiscardLogger()})
		require.ErrorIs(t, err, cause)
		require.True(t, derrors.HasCategory(err, derrors.CategoryBuild))
		require.Equal(t, []string{ExecFile, WasmFile}, Missing(public))
	})
}

func TestGoToolchain_MissingBinary(t *testing.T) {
	_, err := GoToolchain{Path: "definitely-not-a-go-binary"}.GOROOT(t.Context())
	require.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
}
