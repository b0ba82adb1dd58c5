package episode

import "fmt"

// #region validation-error

// ValidationError reports a malformed request or state shape at the engine
// boundary. The engine never repairs invalid input; callers translate this
// into a client-facing rejection.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// #endregion validation-error

// #region validate

// Validate checks the boundary invariants of the episode state.
func (e *EpisodeState) Validate() error {
	if e.SessionID == "" {
		return &ValidationError{Field: "session_id", Reason: "must not be empty"}
	}
	if e.UserID == "" {
		return &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if e.Metrics.CurrentAct < 1 {
		return &ValidationError{Field: "metrics.current_act", Reason: "must be >= 1"}
	}
	if e.Metrics.CurrentTurn < 0 {
		return &ValidationError{Field: "metrics.current_turn", Reason: "must be >= 0"}
	}
	for _, l := range e.OpenLoops {
		if l.Priority < 1 || l.Priority > 10 {
			return &ValidationError{
				Field:  "open_loops.priority",
				Reason: fmt.Sprintf("loop %s has priority %d, want 1-10", l.ID, l.Priority),
			}
		}
	}
	for _, p := range e.PatternSignals {
		if p.Confidence < 0 || p.Confidence > 1 {
			return &ValidationError{
				Field:  "pattern_signals.confidence_0_1",
				Reason: fmt.Sprintf("kind %s has confidence %.2f, want [0,1]", p.Kind, p.Confidence),
			}
		}
		if p.OccurrenceCount < 1 {
			return &ValidationError{
				Field:  "pattern_signals.occurrence_count",
				Reason: fmt.Sprintf("kind %s has count %d, want >= 1", p.Kind, p.OccurrenceCount),
			}
		}
	}
	for _, r := range e.RevealPlans {
		if !r.Vetoable {
			return &ValidationError{
				Field:  "reveal_plans.vetoable",
				Reason: fmt.Sprintf("plan %s is not vetoable; all reveals must be", r.ID),
			}
		}
	}
	return nil
}

// #endregion validate
