package audit

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	l, err := NewLogger(db)
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return l
}

func TestLogAndQueryRoundTrip(t *testing.T) {
	l := newTestLogger(t)

	e := NewEvent("s1", EventTurnReceived, 1, 1, map[string]any{
		"turn_id": "turn-1",
		"message": "it was just a thing",
	})
	if err := l.Log(e); err != nil {
		t.Fatalf("log: %v", err)
	}

	events, err := l.BySession("s1", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	got := events[0]
	if got.ID != e.ID || got.Type != EventTurnReceived {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.TurnNumber != 1 || got.ActNumber != 1 {
		t.Fatalf("counters lost: turn=%d act=%d", got.TurnNumber, got.ActNumber)
	}
	if got.Payload["turn_id"] != "turn-1" {
		t.Fatalf("payload lost: %v", got.Payload)
	}
}

func TestLogAllPreservesOrder(t *testing.T) {
	l := newTestLogger(t)

	batch := []Event{
		NewEvent("s1", EventTurnReceived, 1, 1, map[string]any{"turn_id": "turn-1"}),
		NewEvent("s1", EventPatternDetected, 1, 1, map[string]any{"kinds": []string{"minimization_language"}}),
		NewEvent("s1", EventMoveSelected, 1, 1, map[string]any{"move": "PIN_TO_SPECIFICS"}),
	}
	if err := l.LogAll(batch); err != nil {
		t.Fatalf("log all: %v", err)
	}

	events, err := l.BySession("s1", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	order := []EventType{EventTurnReceived, EventPatternDetected, EventMoveSelected}
	for i, typ := range order {
		if events[i].Type != typ {
			t.Fatalf("position %d: expected %s, got %s", i, typ, events[i].Type)
		}
	}
}

func TestQueryFiltersByType(t *testing.T) {
	l := newTestLogger(t)

	if err := l.LogAll([]Event{
		NewEvent("s1", EventTurnReceived, 1, 1, nil),
		NewEvent("s1", EventMoveSelected, 1, 1, map[string]any{"move": "MIRROR_LANGUAGE"}),
		NewEvent("s1", EventTurnReceived, 2, 1, nil),
		NewEvent("s2", EventTurnReceived, 1, 1, nil),
	}); err != nil {
		t.Fatalf("log all: %v", err)
	}

	received, err := l.BySession("s1", EventTurnReceived)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("expected 2 turn_received for s1, got %d", len(received))
	}

	all, err := l.BySession("s1", "")
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events for s1, got %d", len(all))
	}
}

func TestEmptyPayloadStaysNil(t *testing.T) {
	l := newTestLogger(t)

	if err := l.Log(NewEvent("s1", EventSessionStart, 0, 1, nil)); err != nil {
		t.Fatalf("log: %v", err)
	}
	events, err := l.BySession("s1", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if events[0].Payload != nil {
		t.Fatalf("expected nil payload, got %v", events[0].Payload)
	}
}
