package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

const exampleHeader = `# UnitsTool site configuration.
# Values may reference environment variables as ${VAR}; .env and .env.local
# next to this file are loaded first.
`

// Example is the configuration written by Init.
func Example() *Config {
	cfg := Default()
	cfg.Serve.RebuildEvery = ""
	cfg.History.Path = ".unitstool/history.db"
	return cfg
}

// Init writes an example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return derrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return derrors.FileSystemError("cannot stat configuration file").WithCause(err).
			WithContext("path", path).
			Build()
	}

	var buf bytes.Buffer
	buf.WriteString(exampleHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Example()); err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to encode example configuration").Build()
	}
	if err := enc.Close(); err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to encode example configuration").Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return derrors.FileSystemError("failed to create configuration directory").WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return derrors.FileSystemError("failed to write configuration file").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
