package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmonline245-max/unitstool/internal/config"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/metrics"
	"github.com/mmonline245-max/unitstool/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides paths.output)" type:"path"`

	out io.Writer `kong:"-"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Paths.Output = b.Output
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	history, observer, err := openHistory(ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	if history != nil {
		defer func() { _ = history.Close() }()
	}

	builder := site.NewBuilder(site.OptionsFromConfig(cfg),
		site.WithLogger(g.Logger),
		site.WithObserver(observer))
	report, err := builder.Build(ctx, metrics.TriggerManual)
	if err != nil {
		return err
	}

	for _, sp := range report.SkippedPosts {
		g.Logger.Warn("Post skipped", logfields.File(sp.File), "reason", sp.Reason)
	}
	out := b.out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, "Built %s into %s\n%s\n", cfg.Site.Name, cfg.Paths.Output, report.Summary())
	if len(report.MissingAssets) > 0 {
		_, _ = fmt.Fprintf(out, "Warning: calculator widget not installed (missing %s); run 'unitstool widget'\n",
			strings.Join(report.MissingAssets, ", "))
	}
	return nil
}
