package tapes

// #region imports
import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #endregion

// #region types

// Gap is a stretch of the timeline with no recorded events.
type Gap struct {
	StartDate      string
	EndDate        string
	GapDays        int
	Description    string
	SuggestedTease string
}

// #endregion types

// #region engine

const dateLayout = "2006-01-02"

// Engine turns timeline gaps into reveal-ready evidence.
type Engine struct {
	gapThresholdDays int
}

// NewEngine creates a gap detector. Gaps shorter than thresholdDays are
// ignored.
func NewEngine(thresholdDays int) *Engine {
	return &Engine{gapThresholdDays: thresholdDays}
}

// DefaultGapThresholdDays is six months.
const DefaultGapThresholdDays = 180

// #endregion engine

// #region find-gaps

// FindGaps scans the timeline for significant gaps between adjacent events,
// returning them largest first. Events with unparseable dates are skipped.
func (e *Engine) FindGaps(timeline []episode.TimelineEvent) []Gap {
	type dated struct {
		at time.Time
		ev episode.TimelineEvent
	}

	var sorted []dated
	for _, ev := range timeline {
		at, err := time.Parse(dateLayout, ev.Date)
		if err != nil {
			continue
		}
		sorted = append(sorted, dated{at: at, ev: ev})
	}
	if len(sorted) < 2 {
		return nil
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })

	var gaps []Gap
	for i := 0; i < len(sorted)-1; i++ {
		cur, next := sorted[i], sorted[i+1]
		diffDays := next.at.Sub(cur.at).Hours() / 24

		if diffDays < float64(e.gapThresholdDays) {
			continue
		}

		days := int(math.Round(diffDays))
		months := int(math.Round(diffDays / 30))
		gaps = append(gaps, Gap{
			StartDate:      cur.ev.Date,
			EndDate:        next.ev.Date,
			GapDays:        days,
			Description:    fmt.Sprintf("%d months between %q and %q", months, cur.ev.Description, next.ev.Description),
			SuggestedTease: tease(months, cur.ev.Description, next.ev.Description),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].GapDays > gaps[j].GapDays })
	return gaps
}

// tease phrases the gap in months below a year, years at or above.
func tease(months int, before, after string) string {
	if months >= 12 {
		years := int(math.Round(float64(months) / 12))
		plural := ""
		if years > 1 {
			plural = "s"
		}
		return fmt.Sprintf("There's about %d year%s between %s and %s. I'm curious what was happening then.", years, plural, before, after)
	}
	return fmt.Sprintf("There's about %d months between %s and %s. What was that time like?", months, before, after)
}

// #endregion find-gaps

// #region receipt

// ReceiptCard builds a missing_tape receipt for a gap.
func (e *Engine) ReceiptCard(gap Gap) episode.ReceiptCard {
	return episode.ReceiptCard{
		Type:           episode.ReceiptMissingTape,
		DateStart:      gap.StartDate,
		DateEnd:        gap.EndDate,
		IsGap:          true,
		GapDescription: gap.Description,
	}
}

// #endregion receipt
