package tapes

import (
	"strings"
	"testing"

	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

func event(id, date, desc string) episode.TimelineEvent {
	return episode.TimelineEvent{
		ID: id, Date: date, Description: desc,
		Confidence: episode.TimelineStated,
	}
}

func TestFindGapsYearScale(t *testing.T) {
	e := NewEngine(DefaultGapThresholdDays)
	timeline := []episode.TimelineEvent{
		event("t1", "2010-01-01", "the wedding"),
		event("t2", "2012-03-01", "the move west"),
	}

	gaps := e.FindGaps(timeline)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}

	g := gaps[0]
	if g.GapDays != 790 {
		t.Fatalf("expected 790 days, got %d", g.GapDays)
	}
	if !strings.Contains(g.SuggestedTease, "about 2 years") {
		t.Fatalf("expected a years-scale tease, got %q", g.SuggestedTease)
	}
	if !strings.Contains(g.SuggestedTease, "the wedding") || !strings.Contains(g.SuggestedTease, "the move west") {
		t.Fatalf("tease should name both events, got %q", g.SuggestedTease)
	}
}

func TestFindGapsMonthScale(t *testing.T) {
	e := NewEngine(DefaultGapThresholdDays)
	timeline := []episode.TimelineEvent{
		event("t1", "2015-01-01", "graduation"),
		event("t2", "2015-08-15", "the new job"),
	}

	gaps := e.FindGaps(timeline)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	if !strings.Contains(gaps[0].SuggestedTease, "months") {
		t.Fatalf("sub-year gap should tease in months, got %q", gaps[0].SuggestedTease)
	}
	if !strings.Contains(gaps[0].SuggestedTease, "What was that time like?") {
		t.Fatalf("unexpected tease %q", gaps[0].SuggestedTease)
	}
}

func TestFindGapsBelowThreshold(t *testing.T) {
	e := NewEngine(DefaultGapThresholdDays)
	timeline := []episode.TimelineEvent{
		event("t1", "2015-01-01", "a"),
		event("t2", "2015-04-01", "b"),
	}
	if gaps := e.FindGaps(timeline); len(gaps) != 0 {
		t.Fatalf("90-day gap should be ignored, got %d", len(gaps))
	}
}

func TestFindGapsSortsLargestFirst(t *testing.T) {
	e := NewEngine(DefaultGapThresholdDays)
	timeline := []episode.TimelineEvent{
		event("t3", "2020-06-01", "c"),
		event("t1", "2010-01-01", "a"),
		event("t2", "2012-01-01", "b"),
	}

	gaps := e.FindGaps(timeline)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}
	if gaps[0].GapDays < gaps[1].GapDays {
		t.Fatalf("gaps should be largest first: %d then %d", gaps[0].GapDays, gaps[1].GapDays)
	}
	// b -> c is over 8 years, so it leads.
	if gaps[0].StartDate != "2012-01-01" {
		t.Fatalf("expected largest gap to start 2012-01-01, got %s", gaps[0].StartDate)
	}
}

func TestFindGapsSkipsUnparseableDates(t *testing.T) {
	e := NewEngine(DefaultGapThresholdDays)
	timeline := []episode.TimelineEvent{
		event("t1", "2010-01-01", "a"),
		event("t2", "sometime in college", "b"),
	}
	if gaps := e.FindGaps(timeline); gaps != nil {
		t.Fatalf("one parseable date cannot form a gap, got %v", gaps)
	}
}

func TestReceiptCard(t *testing.T) {
	e := NewEngine(DefaultGapThresholdDays)
	gaps := e.FindGaps([]episode.TimelineEvent{
		event("t1", "2010-01-01", "the wedding"),
		event("t2", "2012-03-01", "the move west"),
	})

	card := e.ReceiptCard(gaps[0])
	if card.Type != episode.ReceiptMissingTape {
		t.Fatalf("expected missing_tape, got %s", card.Type)
	}
	if !card.IsGap {
		t.Fatal("receipt should be flagged as a gap")
	}
	if card.DateStart != "2010-01-01" || card.DateEnd != "2012-03-01" {
		t.Fatalf("unexpected range %s - %s", card.DateStart, card.DateEnd)
	}
	if card.GapDescription == "" {
		t.Fatal("receipt should carry the gap description")
	}
}
