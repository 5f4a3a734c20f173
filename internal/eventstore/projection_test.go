package eventstore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildHistoryProjection_ApplyEvents(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	projection := NewBuildHistoryProjection(store, 10)

	started, err := NewBuildStarted(testBuildID, BuildStartedPayload{Trigger: "watch", OutputDir: "dist"})
	require.NoError(t, err)
	projection.Apply(started)

	summary, ok := projection.GetBuild(testBuildID)
	require.True(t, ok)
	require.Equal(t, StatusRunning, summary.Status)
	require.Equal(t, "watch", summary.Trigger)

	active, ok := projection.ActiveBuild()
	require.True(t, ok)
	require.Equal(t, testBuildID, active.BuildID)

	stage, err := NewStageCompleted(testBuildID, "load_tools", 20*time.Millisecond)
	require.NoError(t, err)
	projection.Apply(stage)

	done, err := NewBuildCompleted(testBuildID, BuildCompletedPayload{Tools: 4, Posts: 2, Pages: 11})
	require.NoError(t, err)
	projection.Apply(done)

	summary, _ = projection.GetBuild(testBuildID)
	require.Equal(t, StatusCompleted, summary.Status)
	require.Equal(t, []string{"load_tools"}, summary.Stages)
	require.NotNil(t, summary.Counts)
	require.Equal(t, 11, summary.Counts.Pages)
	require.NotNil(t, summary.CompletedAt)

	_, ok = projection.ActiveBuild()
	require.False(t, ok)
	require.Len(t, projection.History(0), 1)
}

func TestBuildHistoryProjection_FailedAndCanceled(t *testing.T) {
	projection := NewBuildHistoryProjection(nil, 10)

	for id, canceled := range map[string]bool{"a": false, "b": true} {
		ev, err := NewBuildFailed(id, BuildFailedPayload{Stage: "render_blog", Error: "boom", Canceled: canceled})
		require.NoError(t, err)
		projection.Apply(ev)
	}

	a, _ := projection.GetBuild("a")
	require.Equal(t, StatusFailed, a.Status)
	require.Equal(t, "render_blog", a.ErrorStage)
	require.Equal(t, "boom", a.Error)

	b, _ := projection.GetBuild("b")
	require.Equal(t, StatusCanceled, b.Status)
}

func TestBuildHistoryProjection_BoundedHistory(t *testing.T) {
	projection := NewBuildHistoryProjection(nil, 2)
	for _, id := range []string{"one", "two", "three"} {
		ev, err := NewBuildCompleted(id, BuildCompletedPayload{})
		require.NoError(t, err)
		projection.Apply(ev)
	}

	history := projection.History(0)
	require.Len(t, history, 2)
	require.Equal(t, "three", history[0].BuildID)
	require.Equal(t, "two", history[1].BuildID)

	_, ok := projection.GetBuild("one")
	require.False(t, ok)

	require.Len(t, projection.History(1), 1)
}

func TestBuildLog_RebuildFromStore(t *testing.T) {
	ctx := t.Context()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	log := NewBuildLog(store, 10)
	require.NoError(t, log.Started(ctx, "first", BuildStartedPayload{Trigger: "manual"}))
	require.NoError(t, log.StageCompleted(ctx, "first", "prepare_output", time.Millisecond))
	require.NoError(t, log.Completed(ctx, "first", BuildCompletedPayload{Pages: 3}))
	require.NoError(t, log.Started(ctx, "second", BuildStartedPayload{Trigger: "schedule"}))
	require.NoError(t, log.Failed(ctx, "second", BuildFailedPayload{Stage: "load_tools", Error: "missing"}))

	replayed := NewBuildHistoryProjection(store, 10)
	require.NoError(t, replayed.Rebuild(ctx))

	history := replayed.History(0)
	require.Len(t, history, 2)
	ids := map[string]string{}
	for _, h := range history {
		ids[h.BuildID] = h.Status
	}
	require.Equal(t, map[string]string{"first": StatusCompleted, "second": StatusFailed}, ids)

	require.Equal(t, log.History(0)[0].BuildID, "second")
	require.NoError(t, log.Close())
}

func TestBuildLog_AppendFailureSurfaces(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	log := NewBuildLog(store, 10)
	require.NoError(t, log.Close())

	err = log.Started(t.Context(), "x", BuildStartedPayload{})
	require.True(t, errors.Is(err, ErrEventAppendFailed))
	_, ok := log.Build("x")
	require.False(t, ok)
}
