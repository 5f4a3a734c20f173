package eventstore

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

const testBuildID = "8c0c2f4e-1111-4c3b-9a7e-000000000001"

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	payload := []byte(`{"stage": "render_tools"}`)
	metadata := map[string]string{"key": "value"}

	if err := store.Append(ctx, testBuildID, TypeStageCompleted, payload, metadata); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	events, err := store.GetByBuildID(ctx, testBuildID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.BuildID() != testBuildID {
		t.Errorf("expected build_id %s, got %s", testBuildID, event.BuildID())
	}
	if event.Type() != TypeStageCompleted {
		t.Errorf("expected event_type %s, got %s", TypeStageCompleted, event.Type())
	}
	if !bytes.Equal(event.Payload(), payload) {
		t.Errorf("expected payload %s, got %s", payload, event.Payload())
	}
	if event.Metadata()["key"] != "value" {
		t.Errorf("expected metadata key=value, got %v", event.Metadata())
	}
	if event.ID() == 0 {
		t.Error("expected an assigned id")
	}
}

func TestEventStoreGetRange(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	now := time.Now()
	for range 3 {
		if err := store.Append(ctx, "build-1", TypeStageCompleted, []byte("{}"), nil); err != nil {
			t.Fatalf("failed to append event: %v", err)
		}
	}

	events, err := store.GetRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}

	events, err = store.GetRange(ctx, now.Add(time.Hour), now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("failed to get range: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events in the future, got %d", len(events))
	}
}

func TestEventStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	ctx := t.Context()

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Append(ctx, testBuildID, TypeBuildStarted, nil, nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	events, err := reopened.GetByBuildID(ctx, testBuildID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 || string(events[0].Payload()) != "{}" {
		t.Fatalf("expected one event with empty payload object, got %+v", events)
	}
}

func TestEventStoreClosed(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	_ = store.Close()

	err = store.Append(t.Context(), testBuildID, TypeBuildStarted, nil, nil)
	if !errors.Is(err, ErrEventAppendFailed) {
		t.Fatalf("expected ErrEventAppendFailed, got %v", err)
	}
}
