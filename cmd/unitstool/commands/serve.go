package commands

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mmonline245-max/unitstool/internal/metrics"
	"github.com/mmonline245-max/unitstool/internal/preview"
	"github.com/mmonline245-max/unitstool/internal/server/handlers"
	"github.com/mmonline245-max/unitstool/internal/server/httpserver"
	"github.com/mmonline245-max/unitstool/internal/site"
)

// ServeCmd builds the site, serves it and rebuilds on change or on a schedule.
type ServeCmd struct {
	Port         int           `short:"p" help:"Port to listen on (overrides serve.port)"`
	Watch        bool          `help:"Rebuild when content, public or template files change"`
	RebuildEvery time.Duration `name:"rebuild-every" help:"Rebuild periodically, e.g. 1h (overrides serve.rebuild_every)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.Watch {
		cfg.Serve.Watch = true
	}
	every, err := cfg.Serve.RebuildInterval()
	if err != nil {
		return err
	}
	if s.RebuildEvery > 0 {
		every = s.RebuildEvery
	}

	ctx, cancel := signalContext()
	defer cancel()

	history, observer, err := openHistory(ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	var historySource handlers.HistorySource
	if history != nil {
		defer func() { _ = history.Close() }()
		historySource = history
	}

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	builder := site.NewBuilder(site.OptionsFromConfig(cfg),
		site.WithLogger(g.Logger),
		site.WithObserver(observer),
		site.WithRecorder(metrics.NewPrometheusRecorder(reg)))

	server := httpserver.New(httpserver.Options{
		Addr:      fmt.Sprintf(":%d", cfg.Serve.Port),
		OutputDir: cfg.Paths.Output,
		Site:      builder,
		History:   historySource,
		Registry:  reg,
		Logger:    g.Logger,
	})

	return preview.Run(ctx, preview.Options{
		Builder:      builder,
		Server:       server,
		Watch:        cfg.Serve.Watch,
		RebuildEvery: every,
		Logger:       g.Logger,
	})
}
