package service_test

import (
	"context"
	"testing"

	"stackcanvas/internal/domain"
	"stackcanvas/internal/history"
	"stackcanvas/internal/service"
)

// ─────────────────────────────────────────────────────────────
// MockEmitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_LastCanvasEvent(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	if _, ok := m.Last(); ok {
		t.Fatal("expected no last event on a fresh emitter")
	}

	m.Emit(ctx, service.EventCanvasChanged, service.CanvasEvent{Kind: "execute", CommandType: history.TypeAddBlock})
	m.Emit(ctx, service.EventCanvasChanged, service.CanvasEvent{
		Kind:  "undo",
		State: domain.CanvasState{Blocks: []domain.Block{{ID: "api"}}},
	})

	if len(m.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(m.Events))
	}
	last, ok := m.Last()
	if !ok || last.Event != service.EventCanvasChanged {
		t.Fatalf("unexpected last event %+v", last)
	}
	ev, ok := last.Data.(service.CanvasEvent)
	if !ok {
		t.Fatalf("expected CanvasEvent payload, got %T", last.Data)
	}
	if ev.Kind != "undo" || len(ev.State.Blocks) != 1 || ev.State.Blocks[0].ID != "api" {
		t.Errorf("unexpected payload %+v", ev)
	}
}
