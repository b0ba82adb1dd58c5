package director

import (
	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #region director

// Director owns the episode flow tables and policies. It holds no per-episode
// state itself; one Director value serves any number of sessions, each
// carrying its own Context.
type Director struct {
	caps        PressureCaps
	disclosure  DisclosurePolicy
	transitions []Transition
	moves       MoveTable
}

// Config bundles the Director's policy tables.
type Config struct {
	Caps        PressureCaps
	Disclosure  DisclosurePolicy
	Transitions []Transition
	Moves       MoveTable
}

// DefaultConfig returns the standard episode-flow configuration.
func DefaultConfig() Config {
	return Config{
		Caps:        DefaultPressureCaps(),
		Disclosure:  DefaultDisclosurePolicy(),
		Transitions: DefaultTransitions(),
		Moves:       DefaultMoveTable(),
	}
}

// New creates a Director from explicit policy tables.
func New(cfg Config) *Director {
	return &Director{
		caps:        cfg.Caps,
		disclosure:  cfg.Disclosure,
		transitions: cfg.Transitions,
		moves:       cfg.Moves,
	}
}

// Caps returns the active pressure caps.
func (d *Director) Caps() PressureCaps {
	return d.caps
}

// #endregion director

// #region available-moves

// AvailableMoves returns the legal move subset for a state. The result is a
// copy; callers may not grow it into the table.
func (d *Director) AvailableMoves(s State) []episode.HostMove {
	moves := d.moves[s]
	out := make([]episode.HostMove, len(moves))
	copy(out, moves)
	return out
}

// #endregion available-moves

// #region is-move-allowed

// IsMoveAllowed reports whether a move is legal in the given context,
// enforcing both state availability and the followup pressure cap. Once the
// cap is reached on a topic, only OFFER_FORK or SILENCE remain legal there.
func (d *Director) IsMoveAllowed(ctx Context, move episode.HostMove, topicID string) bool {
	if move == episode.MoveSafetyGround {
		return true
	}

	available := false
	for _, m := range d.moves[ctx.State] {
		if m == move {
			available = true
			break
		}
	}
	if !available {
		return false
	}

	if topicID == ctx.LastTopicID && ctx.ConsecutiveFollowups >= d.caps.MaxFollowupsOnTopic {
		return move == episode.MoveOfferFork || move == episode.MoveSilence
	}

	return true
}

// #endregion is-move-allowed

// #region disclosure

// IsDisclosureAllowed reports whether a pattern may be surfaced to the user.
// All four conditions must hold: enough observations, enough turn span, a
// cost hint present, and risk below critical.
func (d *Director) IsDisclosureAllowed(sig episode.PatternSignal, risk episode.RiskLevel) bool {
	if d.disclosure.BlockIfCriticalRisk && risk == episode.RiskCritical {
		return false
	}
	if sig.OccurrenceCount < d.disclosure.MinObservations {
		return false
	}
	if sig.LastSeenTurn-sig.FirstSeenTurn < d.disclosure.MinTurnSpan {
		return false
	}
	if d.disclosure.RequireCostHint && sig.CostHint == "" {
		return false
	}
	return true
}

// #endregion disclosure

// #region transition

// Transition applies the first table row matching (state, trigger) whose
// guard passes, returning the new context and whether a transition fired.
// Returning to act_live from a commercial break advances the act counter.
func (d *Director) Transition(ctx Context, trigger Trigger, ep *episode.EpisodeState) (Context, bool) {
	for _, t := range d.transitions {
		if t.From != ctx.State || t.Trigger != trigger {
			continue
		}
		if t.Guard != nil && !t.Guard(ctx, ep) {
			continue
		}

		next := ctx
		next.State = t.To
		if t.From == StateCommercialBreak && t.To == StateActLive {
			next.Act++
			next.TurnsInAct = 0
		}
		return next, true
	}
	return ctx, false
}

// TriggerSafety forces the context into safety_hold regardless of current
// state or guards, and sets the sticky override flag.
func (d *Director) TriggerSafety(ctx Context) Context {
	next := ctx
	next.State = StateSafetyHold
	next.SafetyOverride = true
	return next
}

// #endregion transition

// #region record-turn

// RecordTurn advances the turn counters. A repeated topic increments the
// consecutive-followup counter; a new topic resets it.
func (d *Director) RecordTurn(ctx Context, topicID string) Context {
	next := ctx
	next.Turn++
	next.TurnsInAct++

	if topicID == ctx.LastTopicID {
		next.ConsecutiveFollowups++
	} else {
		next.ConsecutiveFollowups = 0
		next.LastTopicID = topicID
	}
	return next
}

// SetPendingReveal returns a context carrying the given reveal (nil clears).
func (d *Director) SetPendingReveal(ctx Context, plan *episode.RevealPlan) Context {
	next := ctx
	next.PendingReveal = plan
	return next
}

// #endregion record-turn
