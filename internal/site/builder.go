package site

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmonline245-max/unitstool/internal/config"
	"github.com/mmonline245-max/unitstool/internal/content"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/metrics"
	"github.com/mmonline245-max/unitstool/internal/render"
	"github.com/mmonline245-max/unitstool/internal/slug"
)

// Options are the resolved inputs of a build.
type Options struct {
	Site          render.Site
	ToolsPath     string
	BlogDir       string
	PublicDir     string
	TemplatesDir  string // empty selects the built-in templates
	OutputDir     string
	Concurrency   int
	ExcerptLength int
	UnsafeHTML    bool
}

// OptionsFromConfig maps a loaded configuration onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Site: render.Site{
			Name:        cfg.Site.Name,
			Domain:      cfg.Site.Domain,
			Tagline:     cfg.Site.Tagline,
			Description: cfg.Site.Description,
			Scheme:      cfg.Site.Scheme,
		},
		ToolsPath:     cfg.Paths.Tools,
		BlogDir:       cfg.Paths.Blog,
		PublicDir:     cfg.Paths.Public,
		TemplatesDir:  cfg.Paths.Templates,
		OutputDir:     cfg.Paths.Output,
		Concurrency:   cfg.Build.Concurrency,
		ExcerptLength: cfg.Build.ExcerptLength,
		UnsafeHTML:    cfg.Build.UnsafeHTML,
	}
}

// Snapshot is the content of the last successful build.
type Snapshot struct {
	Report *BuildReport
	Tools  []content.Tool
	Posts  []content.Post
}

// Builder runs site builds. Builds on one Builder never overlap.
type Builder struct {
	opts     Options
	recorder metrics.Recorder
	observer BuildObserver
	logger   *slog.Logger
	now      func() time.Time
	stages   []StageDef

	mu sync.Mutex // serialises builds

	snapMu sync.RWMutex
	last   *Snapshot
}

// Option customises a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// WithObserver sets the build observer.
func WithObserver(o BuildObserver) Option { return func(b *Builder) { b.observer = o } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(b *Builder) { b.logger = l } }

// WithClock overrides the build timestamp source.
func WithClock(now func() time.Time) Option { return func(b *Builder) { b.now = now } }

// WithStages replaces the default pipeline.
func WithStages(stages []StageDef) Option { return func(b *Builder) { b.stages = stages } }

// NewBuilder creates a Builder for opts.
func NewBuilder(opts Options, options ...Option) *Builder {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	b := &Builder{
		opts:     opts,
		recorder: metrics.NoopRecorder{},
		observer: NoopObserver{},
		logger:   slog.Default(),
		now:      time.Now,
		stages:   DefaultPipeline(),
	}
	for _, o := range options {
		o(b)
	}
	return b
}

// Options returns the build options.
func (b *Builder) Options() Options { return b.opts }

// Build runs the whole pipeline once. The returned report is never nil.
func (b *Builder) Build(ctx context.Context, trigger metrics.TriggerLabel) (*BuildReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	report := NewBuildReport(trigger, b.opts.OutputDir)
	logger := b.logger.With(logfields.BuildID(report.BuildID))

	bs := &BuildState{
		Options:   b.opts,
		Site:      b.opts.Site,
		BuildTime: b.now().UTC(),
		Report:    report,
		toolSlugs: slug.NewRegistry("tools"),
		postSlugs: slug.NewRegistry("blog").Reserve("index"),
		store: content.NewStore(content.Options{
			ToolsPath:     b.opts.ToolsPath,
			BlogDir:       b.opts.BlogDir,
			ExcerptLength: b.opts.ExcerptLength,
			UnsafeHTML:    b.opts.UnsafeHTML,
			Logger:        logger,
		}),
		renderer: render.New(b.opts.TemplatesDir),
		recorder: b.recorder,
		observer: b.observer,
		logger:   logger,
	}

	b.recorder.IncBuildTrigger(trigger)
	b.observer.OnBuildStart(ctx, report)
	logger.InfoContext(ctx, "Build started",
		"trigger", string(trigger),
		logfields.Output(b.opts.OutputDir))

	err := RunStages(ctx, bs, b.stages)
	report.finish(err)

	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(outcomeLabel(report.Outcome))
	b.observer.OnBuildComplete(ctx, report)

	if err != nil {
		logger.ErrorContext(ctx, "Build failed",
			logfields.Stage(string(report.FailedStage)),
			logfields.Elapsed(report.Duration()),
			logfields.Error(err))
		return report, err
	}

	logger.InfoContext(ctx, "Build complete",
		logfields.Count(report.TotalPages()),
		logfields.Elapsed(report.Duration()),
		"tools", report.Tools,
		"posts", report.Posts,
		"posts_skipped", len(report.SkippedPosts))

	b.snapMu.Lock()
	b.last = &Snapshot{Report: report, Tools: bs.Tools, Posts: bs.Posts}
	b.snapMu.Unlock()
	return report, nil
}

// LastSuccessful returns the snapshot of the most recent successful build.
func (b *Builder) LastSuccessful() (Snapshot, bool) {
	b.snapMu.RLock()
	defer b.snapMu.RUnlock()
	if b.last == nil {
		return Snapshot{}, false
	}
	return *b.last, true
}
