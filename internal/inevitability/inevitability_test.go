package inevitability

import (
	"math"
	"strings"
	"testing"

	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestZeroScore(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	s := e.Zero("No open loops")

	if s.Score != 0 {
		t.Fatalf("expected score 0, got %.2f", s.Score)
	}
	if s.Rationale != "No open loops" {
		t.Fatalf("unexpected rationale %q", s.Rationale)
	}
	if s.ThresholdReveal != 0.7 || s.ThresholdConfrontSoft != 0.5 || s.ThresholdConfrontFirm != 0.8 {
		t.Fatalf("thresholds not carried: %+v", s)
	}
}

func TestComputeEmptyEpisode(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	ep := episode.New("s1", "u1")

	s := e.Compute(&ep, "the move")
	if s.Score != 0 {
		t.Fatalf("empty episode should score 0, got %.2f", s.Score)
	}
	if s.Rationale != "No convergence signals" {
		t.Fatalf("unexpected rationale %q", s.Rationale)
	}
}

func TestComputeAnchorFactor(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	ep := episode.New("s1", "u1")
	ep.ClaimsLedger = []episode.Claim{
		{ID: "c1", Statement: "We talked about the move that spring", TurnID: "turn-1"},
		{ID: "c2", Statement: "After the move everything changed", TurnID: "turn-4"},
	}

	s := e.Compute(&ep, "the move")
	if !almostEqual(s.Score, 0.2) {
		t.Fatalf("expected 0.2 from two anchors, got %.2f", s.Score)
	}
	if !strings.Contains(s.Rationale, "2 independent mentions") {
		t.Fatalf("rationale missing anchor factor: %q", s.Rationale)
	}

	// A single anchor is not enough.
	ep.ClaimsLedger = ep.ClaimsLedger[:1]
	if s := e.Compute(&ep, "the move"); s.Score != 0 {
		t.Fatalf("one anchor should not score, got %.2f", s.Score)
	}
}

func TestComputeContradictionFactorCapped(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	ep := episode.New("s1", "u1")
	ep.ContradictionIndex = []episode.Contradiction{
		{ID: "x1"}, {ID: "x2"}, {ID: "x3"},
	}

	s := e.Compute(&ep, "anything")
	// Three unresolved, but only two counted: 0.15 * 2.
	if !almostEqual(s.Score, 0.3) {
		t.Fatalf("expected 0.3, got %.2f", s.Score)
	}
	if !strings.Contains(s.Rationale, "3 unresolved contradictions") {
		t.Fatalf("rationale should report all three: %q", s.Rationale)
	}

	for i := range ep.ContradictionIndex {
		ep.ContradictionIndex[i].Addressed = true
	}
	if s := e.Compute(&ep, "anything"); s.Score != 0 {
		t.Fatalf("addressed contradictions should not score, got %.2f", s.Score)
	}
}

func TestComputeAvoidanceFactor(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	ep := episode.New("s1", "u1")
	ep.PatternSignals = []episode.PatternSignal{
		{Kind: episode.PatternMinimization, OccurrenceCount: 3},
		{Kind: episode.PatternHumorDeflection, OccurrenceCount: 2},
		{Kind: episode.PatternShameCue, OccurrenceCount: 5},    // not an avoidance kind
		{Kind: episode.PatternAgencyShift, OccurrenceCount: 1}, // too few repeats
	}

	s := e.Compute(&ep, "anything")
	if !almostEqual(s.Score, 0.2) {
		t.Fatalf("expected 0.2 from two avoidance patterns, got %.2f", s.Score)
	}
}

func TestComputeEchoAndLoopFactors(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	ep := episode.New("s1", "u1")
	ep.Metrics.CurrentTurn = 10
	ep.EchoPhrases = []episode.EchoPhrase{
		{ID: "e1", EligibleAfterTurn: 8, Used: false},
		{ID: "e2", EligibleAfterTurn: 20, Used: false}, // not yet eligible
		{ID: "e3", EligibleAfterTurn: 5, Used: true},   // spent
	}
	ep.OpenLoops = []episode.OpenLoop{
		{ID: "l1", Topic: "the move", Priority: 8, Status: episode.LoopOpen},
		{ID: "l2", Topic: "minor", Priority: 9, Status: episode.LoopOpen},
	}

	s := e.Compute(&ep, "the move")
	// 0.1 echoes + 0.15 high-priority loop, counted once despite two loops.
	if !almostEqual(s.Score, 0.25) {
		t.Fatalf("expected 0.25, got %.2f", s.Score)
	}
	if !strings.Contains(s.Rationale, "1 echo phrases eligible") {
		t.Fatalf("rationale missing echo factor: %q", s.Rationale)
	}
	if !strings.Contains(s.Rationale, "High-priority open loop present") {
		t.Fatalf("rationale missing loop factor: %q", s.Rationale)
	}
}

func TestComputeClampedAtOne(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	ep := episode.New("s1", "u1")
	ep.Metrics.CurrentTurn = 10
	ep.ClaimsLedger = []episode.Claim{
		{Statement: "the move"}, {Statement: "the move again"},
	}
	ep.ContradictionIndex = []episode.Contradiction{{}, {}}
	ep.PatternSignals = []episode.PatternSignal{
		{Kind: episode.PatternMinimization, OccurrenceCount: 2},
		{Kind: episode.PatternAgencyShift, OccurrenceCount: 2},
		{Kind: episode.PatternHumorDeflection, OccurrenceCount: 2},
	}
	ep.EchoPhrases = []episode.EchoPhrase{{EligibleAfterTurn: 1}}
	ep.OpenLoops = []episode.OpenLoop{{Priority: 9, Status: episode.LoopOpen}}

	s := e.Compute(&ep, "the move")
	// 0.2 + 0.3 + 0.3 + 0.1 + 0.15 = 1.05, clamped.
	if s.Score != 1.0 {
		t.Fatalf("expected clamp at 1.0, got %.2f", s.Score)
	}
}

func TestComputeMonotonicInEvidence(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	ep := episode.New("s1", "u1")

	base := e.Compute(&ep, "the move").Score

	ep.ContradictionIndex = append(ep.ContradictionIndex, episode.Contradiction{})
	withOne := e.Compute(&ep, "the move").Score
	if withOne <= base {
		t.Fatalf("adding a contradiction should raise the score: %.2f -> %.2f", base, withOne)
	}

	ep.ClaimsLedger = []episode.Claim{{Statement: "the move"}, {Statement: "the move"}}
	withAnchors := e.Compute(&ep, "the move").Score
	if withAnchors <= withOne {
		t.Fatalf("adding anchors should raise the score: %.2f -> %.2f", withOne, withAnchors)
	}
}
