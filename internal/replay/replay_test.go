package replay

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/proveniq/origins/go-controlroom/internal/controlroom"
	"github.com/proveniq/origins/go-controlroom/internal/director"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

func newRoom(t *testing.T) *controlroom.Room {
	t.Helper()
	r, err := controlroom.New(controlroom.DefaultConfig())
	if err != nil {
		t.Fatalf("wire control room: %v", err)
	}
	return r
}

func liveContext() director.Context {
	ctx := director.NewContext()
	ctx.State = director.StateActLive
	return ctx
}

func TestLoadFixtureRoundTrip(t *testing.T) {
	f := Fixture{
		Description: "short replies pinned to specifics",
		StartState: FixtureSeed{
			SessionID: "s1",
			UserID:    "u1",
			OpenLoops: []episode.OpenLoop{{
				ID: "loop-1", Topic: "the move", Priority: 8, OpenedAtTurn: 1, Status: episode.LoopOpen,
			}},
		},
		Turns: []FixtureTurn{
			{TurnID: "turn-1", Message: "fine. not a big deal"},
		},
		Expected: []ExpectedResult{
			{TurnID: "turn-1", Move: episode.MovePinToSpecifics},
		},
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if loaded.Description != f.Description {
		t.Fatalf("description lost: %q", loaded.Description)
	}
	if len(loaded.Turns) != 1 || loaded.Turns[0].Message != "fine. not a big deal" {
		t.Fatalf("turns lost: %+v", loaded.Turns)
	}
	if len(loaded.StartState.OpenLoops) != 1 || loaded.StartState.OpenLoops[0].Topic != "the move" {
		t.Fatalf("seed loops lost: %+v", loaded.StartState.OpenLoops)
	}
	if loaded.Expected[0].Move != episode.MovePinToSpecifics {
		t.Fatalf("expectations lost: %+v", loaded.Expected)
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("missing fixture should error")
	}
}

func TestSeedToEpisode(t *testing.T) {
	seed := FixtureSeed{
		SessionID: "s1",
		UserID:    "u1",
		Claims: []episode.Claim{{
			ID: "c1", Statement: "we left in june", TurnID: "turn-1", SupportLevel: episode.ClaimUnclear,
		}},
	}

	ep := seed.ToEpisode()
	if ep.SessionID != "s1" || ep.UserID != "u1" {
		t.Fatalf("identity lost: %+v", ep)
	}
	if len(ep.ClaimsLedger) != 1 {
		t.Fatalf("claims not seeded: %+v", ep.ClaimsLedger)
	}
	if ep.Metrics.CurrentTurn != 0 || ep.Metrics.CurrentAct != 1 {
		t.Fatalf("fresh episode counters expected, got %+v", ep.Metrics)
	}
}

func TestRunThreadsStateForward(t *testing.T) {
	room := newRoom(t)
	seed := FixtureSeed{SessionID: "s1", UserID: "u1"}
	turns := []FixtureTurn{
		{TurnID: "turn-1", Message: "it was just one of those things"},
		{TurnID: "turn-2", Message: "honestly it was just not a big deal"},
	}

	results, ep, ctx, err := Run(room, seed.ToEpisode(), liveContext(), turns)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if ep.Metrics.CurrentTurn != 2 {
		t.Fatalf("turn counter should advance to 2, got %d", ep.Metrics.CurrentTurn)
	}
	if ctx.State != director.StateActLive {
		t.Fatalf("context should stay live, got %s", ctx.State)
	}
	for _, r := range results {
		if r.Move != episode.MovePinToSpecifics {
			t.Fatalf("turn %s: short reply should pin, got %s", r.TurnID, r.Move)
		}
		if r.Status != episode.FeedLive {
			t.Fatalf("turn %s: expected live feed, got %s", r.TurnID, r.Status)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	seed := FixtureSeed{SessionID: "s1", UserID: "u1"}
	turns := []FixtureTurn{
		{TurnID: "turn-1", Message: "it was just one of those things"},
		{TurnID: "turn-2", Message: "we never really talked about what happened after that summer ended"},
		{TurnID: "turn-3", Message: "fine. whatever."},
	}

	first, _, _, err := Run(newRoom(t), seed.ToEpisode(), liveContext(), turns)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, _, _, err := Run(newRoom(t), seed.ToEpisode(), liveContext(), turns)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for i := range first {
		if first[i].Move != second[i].Move || first[i].Instruction != second[i].Instruction {
			t.Fatalf("turn %s diverged across runs: %s vs %s", first[i].TurnID, first[i].Move, second[i].Move)
		}
		if first[i].Inevitability != second[i].Inevitability {
			t.Fatalf("turn %s: inevitability diverged", first[i].TurnID)
		}
	}
}

func TestSummarize(t *testing.T) {
	results := []TurnResult{
		{TurnID: "turn-1", Move: episode.MovePinToSpecifics},
		{TurnID: "turn-2", Move: episode.MoveMirrorLanguage},
		{TurnID: "turn-3", Move: episode.MoveSilence},
	}
	expected := []ExpectedResult{
		{TurnID: "turn-1", Move: episode.MovePinToSpecifics},
		{TurnID: "turn-2", Move: episode.MoveLightPress},
	}

	s := Summarize(results, expected)
	if s.TotalTurns != 3 {
		t.Fatalf("expected 3 total turns, got %d", s.TotalTurns)
	}
	if s.Matches != 1 {
		t.Fatalf("expected 1 match, got %d", s.Matches)
	}
	if len(s.Mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %+v", s.Mismatches)
	}
	m := s.Mismatches[0]
	if m.TurnID != "turn-2" || m.Expected != episode.MoveLightPress || m.Actual != episode.MoveMirrorLanguage {
		t.Fatalf("unexpected mismatch record: %+v", m)
	}
	if s.Pass() {
		t.Fatal("summary with a mismatch should not pass")
	}

	if clean := Summarize(results[:1], expected[:1]); !clean.Pass() {
		t.Fatalf("all-matching summary should pass: %+v", clean)
	}
}
