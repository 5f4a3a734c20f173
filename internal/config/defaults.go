package config

const (
	defaultSiteName        = "UnitsTool"
	defaultSiteDomain      = "unitstool.com"
	defaultSiteTagline     = "Smart Tools for Everyday Calculations"
	defaultSiteDescription = "Free online calculators & converters for everyday use."
	defaultScheme          = "https"

	defaultToolsPath  = "content/tools.json"
	defaultBlogPath   = "content/blog"
	defaultPublicPath = "public"
	defaultOutputPath = "dist"

	defaultConcurrency   = 1
	defaultExcerptLength = 200
	defaultServePort     = 8080
)

// applyDefaults fills every unset field. The site context defaults only
// apply when no site name was configured at all.
func applyDefaults(cfg *Config) {
	if cfg.Site.Name == "" {
		cfg.Site.Name = defaultSiteName
		if cfg.Site.Tagline == "" {
			cfg.Site.Tagline = defaultSiteTagline
		}
		if cfg.Site.Description == "" {
			cfg.Site.Description = defaultSiteDescription
		}
	}
	if cfg.Site.Domain == "" {
		cfg.Site.Domain = defaultSiteDomain
	}
	if cfg.Site.Scheme == "" {
		cfg.Site.Scheme = defaultScheme
	}

	if cfg.Paths.Tools == "" {
		cfg.Paths.Tools = defaultToolsPath
	}
	if cfg.Paths.Blog == "" {
		cfg.Paths.Blog = defaultBlogPath
	}
	if cfg.Paths.Public == "" {
		cfg.Paths.Public = defaultPublicPath
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = defaultOutputPath
	}

	if cfg.Build.Concurrency <= 0 {
		cfg.Build.Concurrency = defaultConcurrency
	}
	if cfg.Build.ExcerptLength == 0 {
		cfg.Build.ExcerptLength = defaultExcerptLength
	}

	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = defaultServePort
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
