package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// Build status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// BuildSummary is the read model of one build.
type BuildSummary struct {
	BuildID     string                 `json:"build_id"`
	Trigger     string                 `json:"trigger,omitempty"`
	Status      string                 `json:"status"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	Duration    time.Duration          `json:"duration,omitempty"`
	Stages      []string               `json:"stages,omitempty"`
	ErrorStage  string                 `json:"error_stage,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Counts      *BuildCompletedPayload `json:"counts,omitempty"`
}

// BuildHistoryProjection keeps the most recent finished builds in memory,
// rebuilt from the store and then updated event by event.
type BuildHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	builds  map[string]*BuildSummary
	history []*BuildSummary // newest first
	maxSize int
}

// NewBuildHistoryProjection creates a projection over store keeping at most
// maxHistorySize finished builds.
func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 100
	}
	return &BuildHistoryProjection{
		store:   store,
		builds:  make(map[string]*BuildSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild replays every stored event.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.builds = make(map[string]*BuildSummary)
	p.history = nil
	for _, event := range events {
		p.applyLocked(event)
	}

	sort.SliceStable(p.history, func(i, j int) bool {
		return p.history[i].StartedAt.After(p.history[j].StartedAt)
	})
	p.trimLocked()
	return nil
}

// Apply folds a single event into the projection.
func (p *BuildHistoryProjection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(event)
}

func (p *BuildHistoryProjection) applyLocked(event Event) {
	buildID := event.BuildID()
	if buildID == "" {
		return
	}

	summary, ok := p.builds[buildID]
	if !ok {
		summary = &BuildSummary{BuildID: buildID, Status: StatusRunning, StartedAt: event.Timestamp()}
		p.builds[buildID] = summary
	}

	switch event.Type() {
	case TypeBuildStarted:
		summary.StartedAt = event.Timestamp()
		var payload BuildStartedPayload
		if json.Unmarshal(event.Payload(), &payload) == nil {
			summary.Trigger = payload.Trigger
		}

	case TypeStageCompleted:
		var payload StageCompletedPayload
		if json.Unmarshal(event.Payload(), &payload) == nil {
			summary.Stages = append(summary.Stages, payload.Stage)
		}

	case TypeBuildCompleted:
		p.finishLocked(summary, event.Timestamp(), StatusCompleted)
		var payload BuildCompletedPayload
		if json.Unmarshal(event.Payload(), &payload) == nil {
			summary.Counts = &payload
		}

	case TypeBuildFailed:
		var payload BuildFailedPayload
		status := StatusFailed
		if json.Unmarshal(event.Payload(), &payload) == nil {
			summary.ErrorStage = payload.Stage
			summary.Error = payload.Error
			if payload.Canceled {
				status = StatusCanceled
			}
		}
		p.finishLocked(summary, event.Timestamp(), status)
	}
}

func (p *BuildHistoryProjection) finishLocked(summary *BuildSummary, at time.Time, status string) {
	summary.CompletedAt = &at
	summary.Duration = at.Sub(summary.StartedAt)
	summary.Status = status

	for _, h := range p.history {
		if h.BuildID == summary.BuildID {
			return
		}
	}
	p.history = append([]*BuildSummary{summary}, p.history...)
	p.trimLocked()
}

// trimLocked bounds history and forgets finished builds that fell out of it.
func (p *BuildHistoryProjection) trimLocked() {
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	keep := make(map[string]bool, len(p.history))
	for _, h := range p.history {
		keep[h.BuildID] = true
	}
	for id, s := range p.builds {
		if s.Status != StatusRunning && !keep[id] {
			delete(p.builds, id)
		}
	}
}

// History returns up to limit finished builds, newest first. limit <= 0
// returns all retained builds.
func (p *BuildHistoryProjection) History(limit int) []BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := len(p.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]BuildSummary, n)
	for i := range n {
		out[i] = *p.history[i]
	}
	return out
}

// GetBuild returns a copy of one build's summary.
func (p *BuildHistoryProjection) GetBuild(buildID string) (BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s, ok := p.builds[buildID]
	if !ok {
		return BuildSummary{}, false
	}
	return *s, true
}

// ActiveBuild returns a build that has started but not finished.
func (p *BuildHistoryProjection) ActiveBuild() (BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, s := range p.builds {
		if s.Status == StatusRunning {
			return *s, true
		}
	}
	return BuildSummary{}, false
}
