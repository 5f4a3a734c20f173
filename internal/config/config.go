// Package config loads the site generator configuration from YAML, with
// .env support, ${VAR} expansion, defaults and validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "config.yaml"

// Config is the complete configuration for one site.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Paths   PathsConfig   `yaml:"paths"`
	Build   BuildConfig   `yaml:"build"`
	Serve   ServeConfig   `yaml:"serve"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`

	// Dir is the directory of the loaded file; empty for the defaults.
	Dir string `yaml:"-"`
}

// SiteConfig is the site context handed to every template.
type SiteConfig struct {
	Name        string `yaml:"name"`
	Domain      string `yaml:"domain"`
	Tagline     string `yaml:"tagline"`
	Description string `yaml:"description"`
	Scheme      string `yaml:"scheme"` // https unless overridden
}

// PathsConfig locates inputs and the output tree.
type PathsConfig struct {
	Tools     string `yaml:"tools"`
	Blog      string `yaml:"blog"`
	Public    string `yaml:"public"`
	Templates string `yaml:"templates"` // empty uses the built-in templates
	Output    string `yaml:"output"`
}

// BuildConfig tunes a build.
type BuildConfig struct {
	Concurrency   int  `yaml:"concurrency"`
	ExcerptLength int  `yaml:"excerpt_length"`
	UnsafeHTML    bool `yaml:"unsafe_html"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Port         int    `yaml:"port"`
	Watch        bool   `yaml:"watch"`
	RebuildEvery string `yaml:"rebuild_every"` // Go duration, empty disables
}

// RebuildInterval parses RebuildEvery. Zero means periodic rebuilds are off.
func (s ServeConfig) RebuildInterval() (time.Duration, error) {
	if s.RebuildEvery == "" {
		return 0, nil
	}
	return time.ParseDuration(s.RebuildEvery)
}

// HistoryConfig enables the build history store when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether builds are recorded.
func (h HistoryConfig) Enabled() bool { return h.Path != "" }

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Default returns the configuration used when no file exists: the stock
// UnitsTool site built from content/ and public/ into dist/.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, expands, defaults and validates the file at path. Relative
// paths inside the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)
	if err := loadEnvFiles(dir); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.NotFoundError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse config file").
			WithContext("path", path).
			Fatal().
			Build()
	}

	applyDefaults(&cfg)
	cfg.Dir = dir
	cfg.Paths = cfg.Paths.resolve(dir)
	if cfg.History.Path != "" && !filepath.IsAbs(cfg.History.Path) {
		cfg.History.Path = filepath.Join(dir, cfg.History.Path)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when path does
// not exist. explicit signals the user named the file, in which case a
// missing file is still an error.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !explicit {
		if err := loadEnvFiles("."); err != nil {
			return nil, err
		}
		cfg := Default()
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

func (p PathsConfig) resolve(base string) PathsConfig {
	join := func(v string) string {
		if v == "" || filepath.IsAbs(v) {
			return v
		}
		return filepath.Join(base, v)
	}
	return PathsConfig{
		Tools:     join(p.Tools),
		Blog:      join(p.Blog),
		Public:    join(p.Public),
		Templates: join(p.Templates),
		Output:    join(p.Output),
	}
}

// BaseURL is scheme://domain without a trailing slash.
func (s SiteConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s", s.Scheme, s.Domain)
}
