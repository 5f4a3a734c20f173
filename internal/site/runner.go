package site

import (
	"context"
	"errors"
	"time"

	"github.com/mmonline245-max/unitstool/internal/logfields"
	"github.com/mmonline245-max/unitstool/internal/metrics"
)

// RunStages executes stages in order, recording timing and stopping on the
// first error. Cancellation is checked before each stage starts.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.recordStage(st.Name, 0, StageResultCanceled, bs.recorder)
			bs.observer.OnStageComplete(ctx, bs.Report, st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		bs.logger.DebugContext(ctx, "Stage starting", logfields.Stage(string(st.Name)))

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		res := StageResultSuccess
		var se *StageError
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				res = StageResultCanceled
				se = NewCanceledStageError(st.Name, err)
			} else {
				res = StageResultFatal
				se = NewFatalStageError(st.Name, err)
			}
		}

		bs.Report.recordStage(st.Name, dur, res, bs.recorder)
		bs.observer.OnStageComplete(ctx, bs.Report, st.Name, dur, res)

		if se != nil {
			return se
		}
		bs.logger.DebugContext(ctx, "Stage complete",
			logfields.Stage(string(st.Name)),
			logfields.Elapsed(dur))
	}
	return nil
}

func resultLabel(res StageResult) metrics.ResultLabel {
	switch res {
	case StageResultFatal:
		return metrics.ResultFatal
	case StageResultCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultSuccess
	}
}
