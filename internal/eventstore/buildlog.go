package eventstore

import (
	"context"
	"time"
)

// BuildLog appends build events to a Store and keeps a projection current.
type BuildLog struct {
	store      Store
	projection *BuildHistoryProjection
}

// OpenBuildLog opens the SQLite history at path and replays it.
func OpenBuildLog(ctx context.Context, path string, maxHistory int) (*BuildLog, error) {
	store, err := NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	log := NewBuildLog(store, maxHistory)
	if err := log.projection.Rebuild(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return log, nil
}

// NewBuildLog wraps an open store. The projection starts empty.
func NewBuildLog(store Store, maxHistory int) *BuildLog {
	return &BuildLog{store: store, projection: NewBuildHistoryProjection(store, maxHistory)}
}

func (l *BuildLog) record(ctx context.Context, event *BaseEvent, err error) error {
	if err != nil {
		return err
	}
	if err := l.store.Append(ctx, event.BuildID(), event.Type(), event.Payload(), event.Metadata()); err != nil {
		return err
	}
	l.projection.Apply(event)
	return nil
}

// Started records the start of a build.
func (l *BuildLog) Started(ctx context.Context, buildID string, p BuildStartedPayload) error {
	event, err := NewBuildStarted(buildID, p)
	return l.record(ctx, event, err)
}

// StageCompleted records a finished stage.
func (l *BuildLog) StageCompleted(ctx context.Context, buildID, stage string, d time.Duration) error {
	event, err := NewStageCompleted(buildID, stage, d)
	return l.record(ctx, event, err)
}

// Completed records a successful build.
func (l *BuildLog) Completed(ctx context.Context, buildID string, p BuildCompletedPayload) error {
	event, err := NewBuildCompleted(buildID, p)
	return l.record(ctx, event, err)
}

// Failed records a failed or canceled build.
func (l *BuildLog) Failed(ctx context.Context, buildID string, p BuildFailedPayload) error {
	event, err := NewBuildFailed(buildID, p)
	return l.record(ctx, event, err)
}

// History returns up to limit finished builds, newest first.
func (l *BuildLog) History(limit int) []BuildSummary {
	return l.projection.History(limit)
}

// Build returns one build's summary.
func (l *BuildLog) Build(buildID string) (BuildSummary, bool) {
	return l.projection.GetBuild(buildID)
}

// Close closes the underlying store.
func (l *BuildLog) Close() error {
	return l.store.Close()
}
