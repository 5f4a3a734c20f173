package eventstore

import (
	"encoding/json"
	"time"

	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

// Event type names.
const (
	TypeBuildStarted   = "BuildStarted"
	TypeStageCompleted = "StageCompleted"
	TypeBuildCompleted = "BuildCompleted"
	TypeBuildFailed    = "BuildFailed"
)

// BuildStartedPayload describes a build when it starts.
type BuildStartedPayload struct {
	Trigger   string `json:"trigger"`
	OutputDir string `json:"output_dir"`
	Version   string `json:"version,omitempty"`
}

// StageCompletedPayload records one finished stage.
type StageCompletedPayload struct {
	Stage      string `json:"stage"`
	DurationMS int64  `json:"duration_ms"`
}

// BuildCompletedPayload carries the counts of a successful build.
type BuildCompletedPayload struct {
	Tools        int   `json:"tools"`
	Categories   int   `json:"categories"`
	Posts        int   `json:"posts"`
	PostsSkipped int   `json:"posts_skipped"`
	Pages        int   `json:"pages"`
	DurationMS   int64 `json:"duration_ms"`
}

// BuildFailedPayload names the stage that failed and why.
type BuildFailedPayload struct {
	Stage      string `json:"stage"`
	Error      string `json:"error"`
	Canceled   bool   `json:"canceled,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// NewEvent encodes payload into an event of eventType for buildID.
func NewEvent(buildID, eventType string, payload any) (*BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, derrors.EventStoreError("failed to marshal event payload").
			WithCause(err).
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
	}, nil
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, p BuildStartedPayload) (*BaseEvent, error) {
	return NewEvent(buildID, TypeBuildStarted, p)
}

// NewStageCompleted creates a StageCompleted event.
func NewStageCompleted(buildID, stage string, d time.Duration) (*BaseEvent, error) {
	return NewEvent(buildID, TypeStageCompleted, StageCompletedPayload{Stage: stage, DurationMS: d.Milliseconds()})
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, p BuildCompletedPayload) (*BaseEvent, error) {
	return NewEvent(buildID, TypeBuildCompleted, p)
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID string, p BuildFailedPayload) (*BaseEvent, error) {
	return NewEvent(buildID, TypeBuildFailed, p)
}
