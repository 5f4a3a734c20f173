// Package preview runs the local preview loop: an initial build, the HTTP
// server, filesystem-triggered rebuilds and optional periodic rebuilds.
package preview

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/metrics"
	"github.com/mmonline245-max/unitstool/internal/server/httpserver"
	"github.com/mmonline245-max/unitstool/internal/site"
)

const shutdownTimeout = 5 * time.Second

// Builder is the part of site.Builder the preview loop drives.
type Builder interface {
	Build(ctx context.Context, trigger metrics.TriggerLabel) (*site.BuildReport, error)
	Options() site.Options
}

// Options configures Run.
type Options struct {
	Builder Builder
	Server  *httpserver.Server
	// Watch rebuilds when the content, public or templates dirs change.
	Watch bool
	// RebuildEvery > 0 schedules periodic rebuilds.
	RebuildEvery time.Duration
	Logger       *slog.Logger
}

// Run builds once, serves, and rebuilds on demand until ctx is done. A
// failing initial build is logged and the server still starts so later
// fixes can be picked up by the watcher.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := opts.Builder.Build(ctx, metrics.TriggerManual); err != nil {
		logger.ErrorContext(ctx, "Initial build failed", logfields.Error(err))
	}

	if err := opts.Server.Start(ctx); err != nil {
		return err
	}

	worker := newRebuildWorker(opts.Builder, logger)
	go worker.run(ctx)

	if opts.RebuildEvery > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.ScheduleEvery("periodic-rebuild", opts.RebuildEvery, func() {
			worker.request(metrics.TriggerSchedule)
		}); err != nil {
			return err
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
		logger.InfoContext(ctx, "Periodic rebuild enabled", slog.Duration("every", opts.RebuildEvery))
	}

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	var deb *debouncer
	var watcher *fsnotify.Watcher
	if opts.Watch {
		bo := opts.Builder.Options()
		w, err := newWatcher(watchRoots(bo.ToolsPath, bo.BlogDir, bo.PublicDir, bo.TemplatesDir))
		if err != nil {
			return err
		}
		watcher = w
		defer func() { _ = watcher.Close() }()
		events, watchErrs = watcher.Events, watcher.Errors
		deb = newDebouncer(debounceDelay, func() { worker.request(metrics.TriggerWatch) })
		defer deb.stop()
		logger.InfoContext(ctx, "Watching for changes", logfields.Count(len(watcher.WatchList())))
	}

	outputDir := opts.Builder.Options().OutputDir
	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down preview server...")
			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			if err := opts.Server.Stop(stopCtx); err != nil {
				logger.Warn("HTTP server shutdown error", logfields.Error(err))
			}
			cancel()
			worker.wait()
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if shouldIgnoreEvent(ev.Name, outputDir) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(watcher, ev.Name)
				}
			}
			logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			deb.trigger()
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

// rebuildWorker runs one rebuild at a time. Requests that arrive while a
// build runs collapse into a single follow-up build.
type rebuildWorker struct {
	builder Builder
	logger  *slog.Logger
	reqs    chan metrics.TriggerLabel
	done    sync.WaitGroup
}

func newRebuildWorker(b Builder, logger *slog.Logger) *rebuildWorker {
	w := &rebuildWorker{builder: b, logger: logger, reqs: make(chan metrics.TriggerLabel, 1)}
	w.done.Add(1)
	return w
}

// request asks for a rebuild without blocking.
func (w *rebuildWorker) request(trigger metrics.TriggerLabel) {
	select {
	case w.reqs <- trigger:
	default:
	}
}

func (w *rebuildWorker) run(ctx context.Context) {
	defer w.done.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-w.reqs:
			w.rebuild(ctx, trigger)
		}
	}
}

func (w *rebuildWorker) rebuild(ctx context.Context, trigger metrics.TriggerLabel) {
	w.logger.InfoContext(ctx, "Rebuilding site", slog.String("trigger", string(trigger)))
	report, err := w.builder.Build(ctx, trigger)
	if err != nil {
		w.logger.WarnContext(ctx, "Rebuild failed", logfields.Error(err))
		return
	}
	w.logger.InfoContext(ctx, "Rebuild complete", slog.String("summary", report.Summary()))
}

func (w *rebuildWorker) wait() { w.done.Wait() }
