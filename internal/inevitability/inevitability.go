package inevitability

// #region imports
import (
	"fmt"
	"strings"

	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #endregion

// #region types

// Score is the 0-1 readiness estimate for confronting or revealing a topic,
// with the rationale that produced it and the fixed decision thresholds.
type Score struct {
	Score                 float64
	Rationale             string
	ThresholdReveal       float64
	ThresholdConfrontSoft float64
	ThresholdConfrontFirm float64
}

// Thresholds are the decision cutoffs attached to every score.
type Thresholds struct {
	Reveal       float64
	ConfrontSoft float64
	ConfrontFirm float64
}

// DefaultThresholds returns the standard reveal/confront cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Reveal:       0.7,
		ConfrontSoft: 0.5,
		ConfrontFirm: 0.8,
	}
}

// #endregion types

// #region engine

// avoidanceKinds are the pattern kinds that count toward the repetition
// factor.
var avoidanceKinds = map[episode.PatternKind]bool{
	episode.PatternMinimization:    true,
	episode.PatternAgencyShift:     true,
	episode.PatternHumorDeflection: true,
}

// Engine computes topic readiness from five additive, independently capped
// factors. The sum is clamped to 1.0; the score never claims certainty.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates a scorer with the given thresholds.
func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// Zero returns the score used when no open loop exists.
func (e *Engine) Zero(rationale string) Score {
	return Score{
		Score:                 0,
		Rationale:             rationale,
		ThresholdReveal:       e.thresholds.Reveal,
		ThresholdConfrontSoft: e.thresholds.ConfrontSoft,
		ThresholdConfrontFirm: e.thresholds.ConfrontFirm,
	}
}

// #endregion engine

// #region compute

// Compute scores how ready the target topic is for confrontation or reveal.
func (e *Engine) Compute(ep *episode.EpisodeState, targetTopic string) Score {
	var score float64
	var factors []string

	// Factor 1: independent evidentiary anchors in the claims ledger.
	topicLower := strings.ToLower(targetTopic)
	anchorCount := 0
	for _, c := range ep.ClaimsLedger {
		if strings.Contains(strings.ToLower(c.Statement), topicLower) {
			anchorCount++
		}
	}
	if anchorCount >= 2 {
		score += 0.2
		factors = append(factors, fmt.Sprintf("%d independent mentions", anchorCount))
	}

	// Factor 2: unresolved contradictions, at most two counted.
	unresolved := 0
	for _, c := range ep.ContradictionIndex {
		if !c.Addressed {
			unresolved++
		}
	}
	if unresolved > 0 {
		counted := unresolved
		if counted > 2 {
			counted = 2
		}
		score += 0.15 * float64(counted)
		factors = append(factors, fmt.Sprintf("%d unresolved contradictions", unresolved))
	}

	// Factor 3: repeated avoidance patterns.
	avoidance := 0
	for _, p := range ep.PatternSignals {
		if p.OccurrenceCount >= 2 && avoidanceKinds[p.Kind] {
			avoidance++
		}
	}
	if avoidance > 0 {
		score += 0.1 * float64(avoidance)
		factors = append(factors, fmt.Sprintf("%d avoidance patterns detected", avoidance))
	}

	// Factor 4: echo phrases currently eligible for callback.
	eligible := 0
	for _, ec := range ep.EchoPhrases {
		if !ec.Used && ec.EligibleAfterTurn <= ep.Metrics.CurrentTurn {
			eligible++
		}
	}
	if eligible > 0 {
		score += 0.1
		factors = append(factors, fmt.Sprintf("%d echo phrases eligible", eligible))
	}

	// Factor 5: a high-priority open loop.
	for _, l := range ep.OpenLoops {
		if l.Status == episode.LoopOpen && l.Priority >= 7 {
			score += 0.15
			factors = append(factors, "High-priority open loop present")
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	rationale := "No convergence signals"
	if len(factors) > 0 {
		rationale = strings.Join(factors, "; ")
	}

	return Score{
		Score:                 score,
		Rationale:             rationale,
		ThresholdReveal:       e.thresholds.Reveal,
		ThresholdConfrontSoft: e.thresholds.ConfrontSoft,
		ThresholdConfrontFirm: e.thresholds.ConfrontFirm,
	}
}

// #endregion compute
