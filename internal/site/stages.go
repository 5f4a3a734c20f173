package site

import (
	"context"
	"fmt"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in pipeline order.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageLoadTools     StageName = "load_tools"
	StageRenderIndex   StageName = "render_index"
	StageRenderTools   StageName = "render_tools"
	StageRenderBlog    StageName = "render_blog"
	StageSitemap       StageName = "sitemap"
	StageRobots        StageName = "robots"
	StageToolData      StageName = "tool_data"
)

// StageErrorKind classifies the outcome of a failed stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError wraps the cause of a stage failure.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// NewFatalStageError creates a fatal stage error.
func NewFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

// NewCanceledStageError creates a cancellation stage error.
func NewCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 8)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}

// DefaultPipeline is the full site build.
func DefaultPipeline() []StageDef {
	return NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageLoadTools, stageLoadTools).
		Add(StageRenderIndex, stageRenderIndex).
		Add(StageRenderTools, stageRenderTools).
		Add(StageRenderBlog, stageRenderBlog).
		Add(StageSitemap, stageSitemap).
		Add(StageRobots, stageRobots).
		Add(StageToolData, stageToolData).
		Build()
}
