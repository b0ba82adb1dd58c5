package controlroom

// #region imports
import (
	"fmt"
	"log"
	"strings"

	"github.com/proveniq/origins/go-controlroom/internal/audit"
	"github.com/proveniq/origins/go-controlroom/internal/director"
	"github.com/proveniq/origins/go-controlroom/internal/echo"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
	"github.com/proveniq/origins/go-controlroom/internal/governor"
	"github.com/proveniq/origins/go-controlroom/internal/inevitability"
	"github.com/proveniq/origins/go-controlroom/internal/pattern"
	"github.com/proveniq/origins/go-controlroom/internal/reveal"
	"github.com/proveniq/origins/go-controlroom/internal/safety"
	"github.com/proveniq/origins/go-controlroom/internal/tapes"
)

// #endregion

// #region config

// Config bundles every sub-engine's policy so profiles can be swapped whole.
type Config struct {
	Director         director.Config
	Pattern          pattern.Config
	EchoDelay        echo.Delay
	Thresholds       inevitability.Thresholds
	Governor         governor.Config
	SafetyPatterns   []safety.CrisisPattern
	GapThresholdDays int
}

// DefaultConfig returns the standard policy profile.
func DefaultConfig() Config {
	return Config{
		Director:         director.DefaultConfig(),
		Pattern:          pattern.DefaultConfig(),
		EchoDelay:        echo.DefaultDelay(),
		Thresholds:       inevitability.DefaultThresholds(),
		Governor:         governor.DefaultConfig(),
		SafetyPatterns:   safety.DefaultPatterns(),
		GapThresholdDays: tapes.DefaultGapThresholdDays,
	}
}

// #endregion config

// #region turn

// Turn is the per-turn input contract.
type Turn struct {
	SessionID string `json:"session_id"`
	TurnID    string `json:"turn_id"`
	Message   string `json:"user_message"`
}

// Validate checks the turn's boundary invariants.
func (t Turn) Validate() error {
	if t.SessionID == "" {
		return &episode.ValidationError{Field: "session_id", Reason: "must not be empty"}
	}
	if t.TurnID == "" {
		return &episode.ValidationError{Field: "turn_id", Reason: "must not be empty"}
	}
	return nil
}

// Result is everything one turn produces: the feed, the updated state and
// director context, and the audit events emitted along the way.
type Result struct {
	Feed    episode.EarpieceFeed
	State   episode.EpisodeState
	Context director.Context
	Events  []audit.Event
}

// #endregion turn

// #region room

// Room wires the sub-engines into the per-turn pipeline. It holds no
// per-session state; state and context flow through ProcessTurn.
type Room struct {
	director      *director.Director
	patterns      *pattern.Engine
	echoes        *echo.Engine
	inevitability *inevitability.Engine
	reveals       *reveal.Engine
	tapes         *tapes.Engine
	governor      *governor.Governor
	safety        *safety.Engine
}

// New creates a fully wired control room from a policy profile.
func New(cfg Config) (*Room, error) {
	gov, err := governor.New(cfg.Governor)
	if err != nil {
		return nil, fmt.Errorf("wire governor: %w", err)
	}
	saf, err := safety.NewEngine(cfg.SafetyPatterns)
	if err != nil {
		return nil, fmt.Errorf("wire safety engine: %w", err)
	}

	return &Room{
		director:      director.New(cfg.Director),
		patterns:      pattern.NewEngine(cfg.Pattern),
		echoes:        echo.NewEngine(cfg.EchoDelay),
		inevitability: inevitability.NewEngine(cfg.Thresholds),
		reveals:       reveal.NewEngine(),
		tapes:         tapes.NewEngine(cfg.GapThresholdDays),
		governor:      gov,
		safety:        saf,
	}, nil
}

// Director exposes the room's director for transition-driving callers.
func (r *Room) Director() *director.Director {
	return r.director
}

// Reveals exposes the reveal engine.
func (r *Room) Reveals() *reveal.Engine {
	return r.reveals
}

// Tapes exposes the missing-tapes engine.
func (r *Room) Tapes() *tapes.Engine {
	return r.tapes
}

// ReviewReveal routes a reveal plan through S&P.
func (r *Room) ReviewReveal(plan episode.RevealPlan, inevitabilityScore float64) governor.Veto {
	return r.governor.ReviewReveal(plan, inevitabilityScore)
}

// #endregion room

// #region process-turn

// ProcessTurn runs the full per-turn pipeline: safety gate, pattern
// detection and merge, echo capture, inevitability scoring, move proposal,
// S&P review, director bookkeeping, and feed assembly. It is a pure
// transform over (turn, context, state) apart from audit timestamps.
func (r *Room) ProcessTurn(turn Turn, dctx director.Context, ep episode.EpisodeState) (Result, error) {
	if err := turn.Validate(); err != nil {
		return Result{}, err
	}
	if err := ep.Validate(); err != nil {
		return Result{}, err
	}

	turnNumber := ep.Metrics.CurrentTurn + 1
	currentAct := ep.Metrics.CurrentAct

	events := []audit.Event{
		audit.NewEvent(ep.SessionID, audit.EventTurnReceived, turnNumber, currentAct, map[string]any{
			"turn_id":    turn.TurnID,
			"message":    turn.Message,
			"word_count": len(strings.Fields(turn.Message)),
		}),
	}

	// 1. Safety gate: short-circuits every other subsystem.
	if sig := r.safety.Detect(turn.Message, turn.TurnID); sig != nil {
		log.Printf("[ROOM] safety: type=%s turn=%s", sig.Type, turn.TurnID)
		response := safety.Response(sig.Type)

		dctx = r.director.TriggerSafety(dctx)
		ep.SafetyIncidents = append(ep.SafetyIncidents, episode.SafetyIncident{
			TurnID:   turn.TurnID,
			Type:     string(sig.Type),
			Response: response,
		})

		events = append(events, audit.NewEvent(ep.SessionID, audit.EventSafetyTriggered, turnNumber, currentAct, map[string]any{
			"signal_type": string(sig.Type),
			"turn_id":     turn.TurnID,
		}))

		return Result{
			Feed:    r.safetyFeed(response),
			State:   ep,
			Context: dctx,
			Events:  events,
		}, nil
	}

	// 2. Pattern detection and merge.
	newSignals := r.patterns.Detect(turn.Message, turn.TurnID, turnNumber)
	merged := r.patterns.Merge(ep.PatternSignals, newSignals)
	if len(newSignals) > 0 {
		kinds := make([]string, len(newSignals))
		for i, s := range newSignals {
			kinds[i] = string(s.Kind)
		}
		events = append(events, audit.NewEvent(ep.SessionID, audit.EventPatternDetected, turnNumber, currentAct, map[string]any{
			"kinds": kinds,
		}))
	}

	// 3. Echo capture.
	newEchoes := r.echoes.Capture(turn.Message, turn.TurnID, currentAct, turnNumber)

	// 4. Inevitability against the first open loop.
	topLoop := ep.FirstOpenLoop()
	var score inevitability.Score
	if topLoop != nil {
		score = r.inevitability.Compute(&ep, topLoop.Topic)
	} else {
		score = r.inevitability.Zero("No open loops")
	}

	// 5. Echo eligibility against the updated counters.
	eligibleEchoes := r.echoes.Eligible(ep.EchoPhrases, currentAct, turnNumber)

	// 6. Move proposal ladder.
	proposal := r.proposeMove(turn.Message, dctx, merged, eligibleEchoes, score)

	// 7. Risk assessment (a safety signal would have returned above).
	risk := assessRisk(merged)

	// 8. S&P review of the primary move.
	veto := r.governor.ReviewMove(proposal.Primary.Move, proposal.Primary.Instruction, dctx, risk)
	final := proposal.Primary
	if veto.Vetoed && veto.Alternative != "" {
		log.Printf("[SP] veto: move=%s reason=%q alt=%s", proposal.Primary.Move, veto.Reason, veto.Alternative)
		final = episode.MoveInstruction{
			Move:        veto.Alternative,
			Instruction: "Pivot to safer ground.",
		}
		events = append(events, audit.NewEvent(ep.SessionID, audit.EventSPVeto, turnNumber, currentAct, map[string]any{
			"proposed":    string(proposal.Primary.Move),
			"alternative": string(veto.Alternative),
			"reason":      veto.Reason,
		}))
	}

	// 9. Disclosure filter over the merged signals, for feed transparency.
	var disclosable []episode.PatternSignal
	for _, p := range merged {
		if r.director.IsDisclosureAllowed(p, risk) {
			disclosable = append(disclosable, p)
		}
	}

	// 10. Director bookkeeping.
	topLoopID := ""
	if topLoop != nil {
		topLoopID = topLoop.ID
	}
	newCtx := r.director.RecordTurn(dctx, topLoopID)

	events = append(events, audit.NewEvent(ep.SessionID, audit.EventMoveSelected, turnNumber, currentAct, map[string]any{
		"move":        string(final.Move),
		"instruction": final.Instruction,
		"vetoed":      veto.Vetoed,
	}))
	log.Printf("[ROOM] turn=%s move=%s risk=%s inevitability=%.2f", turn.TurnID, final.Move, risk, score.Score)

	// 11-12. Feed assembly and state update.
	feed := r.assembleFeed(dctx, ep, topLoop, final, proposal.Alternates, merged, disclosable, score, risk)

	ep.PatternSignals = merged
	ep.EchoPhrases = append(ep.EchoPhrases, newEchoes...)
	ep.Metrics.CurrentTurn = turnNumber

	return Result{
		Feed:    feed,
		State:   ep,
		Context: newCtx,
		Events:  events,
	}, nil
}

// #endregion process-turn

// #region risk

// assessRisk grades the turn from the merged signals: a confident shame or
// freeze cue elevates; critical is only ever set by the safety gate.
func assessRisk(signals []episode.PatternSignal) episode.RiskLevel {
	for _, p := range signals {
		if (p.Kind == episode.PatternShameCue || p.Kind == episode.PatternFreezeCue) && p.Confidence > 0.7 {
			return episode.RiskElevated
		}
	}
	return episode.RiskLow
}

// #endregion risk
