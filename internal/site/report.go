package site

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmonline245-max/unitstool/internal/content"
	"github.com/mmonline245-max/unitstool/internal/metrics"
)

// PageKind groups output pages for counting.
type PageKind string

const (
	PageIndex    PageKind = "index"
	PageCategory PageKind = "category"
	PageTool     PageKind = "tool"
	PageBlog     PageKind = "blog"
	PagePost     PageKind = "post"
)

// BuildOutcome is the final result of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageTiming is one executed stage.
type StageTiming struct {
	Stage    StageName     `json:"stage"`
	Duration time.Duration `json:"duration"`
	Result   StageResult   `json:"result"`
}

// BuildReport summarises one build.
type BuildReport struct {
	BuildID   string               `json:"build_id"`
	Trigger   metrics.TriggerLabel `json:"trigger"`
	OutputDir string               `json:"output_dir"`
	Start     time.Time            `json:"start"`
	End       time.Time            `json:"end"`
	Stages    []StageTiming        `json:"stages"`

	Tools        int                   `json:"tools"`
	Categories   int                   `json:"categories"`
	Posts        int                   `json:"posts"`
	SkippedPosts []content.SkippedPost `json:"skipped_posts,omitempty"`
	Pages        map[PageKind]int      `json:"pages"`
	SitemapURLs  int                   `json:"sitemap_urls"`

	// MissingAssets names widget files absent from the static assets; the
	// pages still build but the calculator will not load.
	MissingAssets []string `json:"missing_assets,omitempty"`

	Outcome     BuildOutcome `json:"outcome"`
	FailedStage StageName    `json:"failed_stage,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// NewBuildReport starts a report with a fresh build ID.
func NewBuildReport(trigger metrics.TriggerLabel, outputDir string) *BuildReport {
	return &BuildReport{
		BuildID:   uuid.NewString(),
		Trigger:   trigger,
		OutputDir: outputDir,
		Start:     time.Now(),
		Pages:     make(map[PageKind]int),
	}
}

func (r *BuildReport) recordStage(stage StageName, d time.Duration, res StageResult, recorder metrics.Recorder) {
	r.Stages = append(r.Stages, StageTiming{Stage: stage, Duration: d, Result: res})
	if recorder != nil {
		recorder.ObserveStageDuration(string(stage), d)
		recorder.IncStageResult(string(stage), resultLabel(res))
	}
}

// StageDuration returns how long stage took, or zero if it did not run.
func (r *BuildReport) StageDuration(stage StageName) time.Duration {
	for _, st := range r.Stages {
		if st.Stage == stage {
			return st.Duration
		}
	}
	return 0
}

// TotalPages is the number of HTML pages written.
func (r *BuildReport) TotalPages() int {
	n := 0
	for _, c := range r.Pages {
		n += c
	}
	return n
}

// Duration is End - Start.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// finish stamps the end time and derives the outcome from err.
func (r *BuildReport) finish(err error) {
	r.End = time.Now()
	if err == nil {
		r.Outcome = OutcomeSuccess
		return
	}
	r.Outcome = OutcomeFailed
	r.Error = err.Error()
	var se *StageError
	if errors.As(err, &se) {
		r.FailedStage = se.Stage
		if se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
		}
	}
}

// Summary is a one-line human description.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("%s: %d tools, %d categories, %d posts (%d skipped), %d pages in %s",
		r.Outcome, r.Tools, r.Categories, r.Posts, len(r.SkippedPosts), r.TotalPages(),
		r.Duration().Round(time.Millisecond))
}

func outcomeLabel(o BuildOutcome) metrics.BuildOutcomeLabel {
	switch o {
	case OutcomeSuccess:
		return metrics.BuildOutcomeSuccess
	case OutcomeCanceled:
		return metrics.BuildOutcomeCanceled
	default:
		return metrics.BuildOutcomeFailed
	}
}
