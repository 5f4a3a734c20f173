// Package commands implements the unitstool subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/mmonline245-max/unitstool/internal/config"
	"github.com/mmonline245-max/unitstool/internal/eventstore"
	"github.com/mmonline245-max/unitstool/internal/site"
	"github.com/mmonline245-max/unitstool/internal/widget"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: config.yaml, optional)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site into the output directory"`
	Serve   ServeCmd   `cmd:"" help:"Build, serve and rebuild the site locally"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration and starter content"`
	History HistoryCmd `cmd:"" help:"Show recent builds from the history database"`
	Widget  WidgetCmd  `cmd:"" help:"Compile the calculator widget to WebAssembly into the static assets"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(os.Stderr, level, config.LogFormatText))
	return nil
}

// Vars are the kong interpolation variables the CLI definition relies on.
func Vars(version string) kong.Vars {
	return kong.Vars{
		"version":        version,
		"widget_package": widget.DefaultPackage,
	}
}

// configPath returns the config file to use and whether the user named it.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	return config.DefaultPath, false
}

// loadConfig loads the configuration and re-applies logging settings from
// it. -v always wins over the configured level.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	path, explicit := c.configPath()
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)
	g.Logger = logger
	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// openHistory opens the build log when history is configured. The returned
// observer is a no-op otherwise.
func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*eventstore.BuildLog, site.BuildObserver, error) {
	if !cfg.History.Enabled() {
		return nil, site.NoopObserver{}, nil
	}
	log, err := eventstore.OpenBuildLog(ctx, cfg.History.Path, 0)
	if err != nil {
		return nil, nil, err
	}
	return log, site.NewHistoryObserver(log, logger), nil
}
