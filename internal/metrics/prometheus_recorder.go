package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "unitstool"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	buildTriggers *prom.CounterVec
	pagesWritten  *prom.CounterVec
	postsSkipped  prom.Counter
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.buildTriggers = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_triggers_total",
			Help:      "Builds started, by trigger",
		}, []string{"trigger"})
		pr.pagesWritten = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Output pages written, by page kind",
		}, []string{"kind"})
		pr.postsSkipped = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "posts_skipped_total",
			Help:      "Blog posts left out because of a malformed header or missing title",
		})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
			pr.buildTriggers, pr.pagesWritten, pr.postsSkipped)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncBuildTrigger(trigger TriggerLabel) {
	if p == nil || p.buildTriggers == nil {
		return
	}
	p.buildTriggers.WithLabelValues(string(trigger)).Inc()
}

func (p *PrometheusRecorder) AddPagesWritten(kind string, n int) {
	if p == nil || p.pagesWritten == nil || n <= 0 {
		return
	}
	p.pagesWritten.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) AddPostsSkipped(n int) {
	if p == nil || p.postsSkipped == nil || n <= 0 {
		return
	}
	p.postsSkipped.Add(float64(n))
}
