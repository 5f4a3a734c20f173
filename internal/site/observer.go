package site

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmonline245-max/unitstool/internal/eventstore"
	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/version"
)

// BuildObserver is notified as a build progresses.
type BuildObserver interface {
	OnBuildStart(ctx context.Context, report *BuildReport)
	OnStageComplete(ctx context.Context, report *BuildReport, stage StageName, d time.Duration, res StageResult)
	OnBuildComplete(ctx context.Context, report *BuildReport)
}

// NoopObserver ignores every notification.
type NoopObserver struct{}

func (NoopObserver) OnBuildStart(context.Context, *BuildReport) {}
func (NoopObserver) OnStageComplete(context.Context, *BuildReport, StageName, time.Duration, StageResult) {
}
func (NoopObserver) OnBuildComplete(context.Context, *BuildReport) {}

// HistoryObserver writes build events to a build log. Write failures are
// logged and never fail the build.
type HistoryObserver struct {
	log    *eventstore.BuildLog
	logger *slog.Logger
}

// NewHistoryObserver records into log.
func NewHistoryObserver(log *eventstore.BuildLog, logger *slog.Logger) *HistoryObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryObserver{log: log, logger: logger}
}

func (h *HistoryObserver) OnBuildStart(ctx context.Context, r *BuildReport) {
	h.check(ctx, r, h.log.Started(context.WithoutCancel(ctx), r.BuildID, eventstore.BuildStartedPayload{
		Trigger:   string(r.Trigger),
		OutputDir: r.OutputDir,
		Version:   version.Version,
	}))
}

func (h *HistoryObserver) OnStageComplete(ctx context.Context, r *BuildReport, stage StageName, d time.Duration, res StageResult) {
	if res != StageResultSuccess {
		return
	}
	h.check(ctx, r, h.log.StageCompleted(context.WithoutCancel(ctx), r.BuildID, string(stage), d))
}

func (h *HistoryObserver) OnBuildComplete(ctx context.Context, r *BuildReport) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if r.Outcome == OutcomeSuccess {
		err = h.log.Completed(ctx, r.BuildID, eventstore.BuildCompletedPayload{
			Tools:        r.Tools,
			Categories:   r.Categories,
			Posts:        r.Posts,
			PostsSkipped: len(r.SkippedPosts),
			Pages:        r.TotalPages(),
			DurationMS:   r.Duration().Milliseconds(),
		})
	} else {
		err = h.log.Failed(ctx, r.BuildID, eventstore.BuildFailedPayload{
			Stage:      string(r.FailedStage),
			Error:      r.Error,
			Canceled:   r.Outcome == OutcomeCanceled,
			DurationMS: r.Duration().Milliseconds(),
		})
	}
	h.check(ctx, r, err)
}

func (h *HistoryObserver) check(ctx context.Context, r *BuildReport, err error) {
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to record build history",
			logfields.BuildID(r.BuildID),
			logfields.Error(err))
	}
}
