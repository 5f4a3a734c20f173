package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

var envFileNames = []string{".env", ".env.local"}

// loadEnvFiles loads .env and .env.local from dir when present. Variables
// already set in the process environment win.
func loadEnvFiles(dir string) error {
	var found []string
	for _, name := range envFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return derrors.WrapError(err, derrors.CategoryConfig, "cannot stat env file").
				WithContext("path", p).
				Build()
		}
	}
	if len(found) == 0 {
		return nil
	}
	if err := godotenv.Load(found...); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "failed to load env file").
			WithContext("paths", found).
			Build()
	}
	return nil
}
