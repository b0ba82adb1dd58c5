package pattern

import (
	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #region config

// MergeConfig tunes how repeat observations fold into a running signal.
// Confidence moves toward, and never past, the cap.
type MergeConfig struct {
	AveragingBias float64
	ConfidenceCap float64
}

// DefaultMergeConfig returns the standard biased-average parameters.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		AveragingBias: 0.1,
		ConfidenceCap: 0.95,
	}
}

// Config bundles merge tuning with the per-kind cost-hint catalog.
type Config struct {
	Merge     MergeConfig
	CostHints map[episode.PatternKind]string
}

// DefaultCostHints returns the kinds that carry a disclosable cost hint.
// Kinds without a hint are never disclosure-eligible.
func DefaultCostHints() map[episode.PatternKind]string {
	return map[episode.PatternKind]string{
		episode.PatternMinimization:  "May be protecting yourself from the weight of what happened",
		episode.PatternAgencyShift:   "The language shifts away from who did what",
		episode.PatternShameCue:      "Carrying responsibility that may not be yours",
		episode.PatternFreezeCue:     "A survival response, not a choice",
		episode.PatternInevitability: "Framing removes the possibility of alternatives",
	}
}

// DefaultConfig returns the standard pattern engine configuration.
func DefaultConfig() Config {
	return Config{
		Merge:     DefaultMergeConfig(),
		CostHints: DefaultCostHints(),
	}
}

// #endregion config

// #region engine

// Engine runs the twelve lexical detectors and folds repeat observations
// into an episode's running signal list.
type Engine struct {
	merge MergeConfig
	hints map[episode.PatternKind]string
}

// NewEngine creates a pattern engine from explicit configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		merge: cfg.Merge,
		hints: cfg.CostHints,
	}
}

// #endregion engine

// #region detect

// Detect runs all detectors against one turn's text and returns the new
// signals, each tagged with the originating turn.
func (e *Engine) Detect(text, turnID string, turnNumber int) []episode.PatternSignal {
	var signals []episode.PatternSignal

	for _, d := range detectors {
		det := d.detect(text)
		if det == nil {
			continue
		}
		signals = append(signals, episode.PatternSignal{
			Kind:            det.kind,
			EvidenceTurnIDs: []string{turnID},
			Confidence:      det.confidence,
			CostHint:        e.hints[det.kind],
			FirstSeenTurn:   turnNumber,
			LastSeenTurn:    turnNumber,
			OccurrenceCount: 1,
		})
	}

	return signals
}

// #endregion detect

// #region merge

// Merge folds new detections into the running list. A kind not yet present
// is appended as-is; a repeat concatenates evidence, nudges confidence with
// a biased average bounded by the cap, refreshes last-seen, and increments
// the occurrence count by one.
func (e *Engine) Merge(existing, incoming []episode.PatternSignal) []episode.PatternSignal {
	merged := make([]episode.PatternSignal, len(existing))
	copy(merged, existing)

	for _, sig := range incoming {
		idx := -1
		for i := range merged {
			if merged[i].Kind == sig.Kind {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, sig)
			continue
		}

		prev := merged[idx]
		prev.EvidenceTurnIDs = append(append([]string{}, prev.EvidenceTurnIDs...), sig.EvidenceTurnIDs...)
		prev.Confidence = min((prev.Confidence+sig.Confidence)/2+e.merge.AveragingBias, e.merge.ConfidenceCap)
		prev.LastSeenTurn = sig.LastSeenTurn
		prev.OccurrenceCount++
		merged[idx] = prev
	}

	return merged
}

// #endregion merge
