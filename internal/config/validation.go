package config

import (
	"strings"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

const maxConcurrency = 64

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Site.Name) == "" {
		return invalid("site.name must not be empty", "site.name", cfg.Site.Name)
	}
	if strings.ContainsAny(cfg.Site.Domain, "/ ") {
		return invalid("site.domain must be a bare host name", "site.domain", cfg.Site.Domain)
	}
	if cfg.Site.Scheme != "http" && cfg.Site.Scheme != "https" {
		return invalid("site.scheme must be http or https", "site.scheme", cfg.Site.Scheme)
	}

	if err := validateOutput(cfg); err != nil {
		return err
	}

	if cfg.Build.Concurrency < 1 || cfg.Build.Concurrency > maxConcurrency {
		return invalid("build.concurrency must be between 1 and 64", "build.concurrency", cfg.Build.Concurrency)
	}
	if cfg.Build.ExcerptLength < 0 {
		return invalid("build.excerpt_length must not be negative", "build.excerpt_length", cfg.Build.ExcerptLength)
	}

	if cfg.Serve.Port < 1 || cfg.Serve.Port > 65535 {
		return invalid("serve.port out of range", "serve.port", cfg.Serve.Port)
	}
	if interval, err := cfg.Serve.RebuildInterval(); err != nil {
		return derrors.WrapError(err, derrors.CategoryValidation, "serve.rebuild_every is not a duration").
			WithContext("field", "serve.rebuild_every").
			Build()
	} else if interval < 0 {
		return invalid("serve.rebuild_every must be positive", "serve.rebuild_every", cfg.Serve.RebuildEvery)
	}

	return nil
}

func invalid(msg, field string, value any) error {
	return derrors.ValidationError(msg).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
