package director

import (
	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #region state

// State is one of the six episode phases the Director moves through.
type State string

const (
	StateGreenRoom       State = "green_room"       // pre-interview warmup
	StateActLive         State = "act_live"         // active interview
	StateCommercialBreak State = "commercial_break" // synthesis pause
	StateRevealSequence  State = "reveal_sequence"  // executing an approved reveal
	StateWrap            State = "wrap"             // episode conclusion
	StateSafetyHold      State = "safety_hold"      // safety escalation override
)

// #endregion state

// #region trigger

// Trigger names an event that can drive a state transition.
type Trigger string

const (
	TriggerUserEngaged     Trigger = "user_engaged"
	TriggerActComplete     Trigger = "act_complete"
	TriggerUserReady       Trigger = "user_ready"
	TriggerRevealApproved  Trigger = "reveal_approved"
	TriggerRevealComplete  Trigger = "reveal_complete"
	TriggerEpisodeComplete Trigger = "episode_complete"
	TriggerSafetySignal    Trigger = "safety_signal"
)

// #endregion trigger

// #region context

// Context is the Director's per-episode bookkeeping. It is a value type:
// RecordTurn, Transition, and TriggerSafety return a new Context rather than
// mutating in place, so a session's context history is replayable.
type Context struct {
	State                State               `json:"state"`
	Act                  int                 `json:"act"`
	Turn                 int                 `json:"turn"`
	TurnsInAct           int                 `json:"turns_in_act"`
	ConsecutiveFollowups int                 `json:"consecutive_followups_on_topic"`
	LastTopicID          string              `json:"last_topic_id"`
	PendingReveal        *episode.RevealPlan `json:"pending_reveal,omitempty"`
	SafetyOverride       bool                `json:"safety_override"`
}

// NewContext returns the green-room context an episode starts in.
func NewContext() Context {
	return Context{
		State: StateGreenRoom,
		Act:   1,
	}
}

// #endregion context

// #region transition-table

// Transition is one row of the Director's transition table.
type Transition struct {
	From    State
	To      State
	Trigger Trigger
	Guard   func(ctx Context, ep *episode.EpisodeState) bool // nil = unconditional
}

// DefaultTransitions returns the episode flow table:
// green_room → act_live ⇄ commercial_break, act_live → reveal_sequence →
// act_live, act_live → wrap, and safety_hold entries for the live states.
func DefaultTransitions() []Transition {
	return []Transition{
		{
			From: StateGreenRoom, To: StateActLive, Trigger: TriggerUserEngaged,
			Guard: func(ctx Context, _ *episode.EpisodeState) bool { return ctx.TurnsInAct >= 2 },
		},
		{
			From: StateActLive, To: StateCommercialBreak, Trigger: TriggerActComplete,
			Guard: func(ctx Context, _ *episode.EpisodeState) bool { return ctx.TurnsInAct >= 8 },
		},
		{
			From: StateCommercialBreak, To: StateActLive, Trigger: TriggerUserReady,
		},
		{
			From: StateActLive, To: StateRevealSequence, Trigger: TriggerRevealApproved,
			Guard: func(ctx Context, _ *episode.EpisodeState) bool { return ctx.PendingReveal != nil },
		},
		{
			From: StateRevealSequence, To: StateActLive, Trigger: TriggerRevealComplete,
		},
		{
			From: StateActLive, To: StateWrap, Trigger: TriggerEpisodeComplete,
			Guard: func(ctx Context, _ *episode.EpisodeState) bool { return ctx.Act >= 3 },
		},
		{
			From: StateActLive, To: StateSafetyHold, Trigger: TriggerSafetySignal,
		},
		{
			From: StateRevealSequence, To: StateSafetyHold, Trigger: TriggerSafetySignal,
		},
	}
}

// #endregion transition-table

// #region move-table

// MoveTable maps each Director state to its legal move subset.
type MoveTable map[State][]episode.HostMove

// DefaultMoveTable returns the locked per-state move availability.
func DefaultMoveTable() MoveTable {
	return MoveTable{
		StateGreenRoom: {
			episode.MoveMirrorLanguage,
			episode.MoveOfferFork,
			episode.MoveSilence,
		},
		StateActLive: {
			episode.MovePinToSpecifics,
			episode.MoveMirrorLanguage,
			episode.MoveNameTheShift,
			episode.MoveStateAndStop,
			episode.MoveOfferFork,
			episode.MoveReturnToOpenLoop,
			episode.MoveBridgeThread,
			episode.MoveLightPress,
			episode.MoveUtilitarianCheck,
			episode.MovePatternPause,
			episode.MoveSilence,
		},
		StateCommercialBreak: {
			episode.MoveCommercialBreak,
		},
		StateRevealSequence: {
			episode.MoveEarnedReveal,
			episode.MoveOfferFork,
			episode.MoveSilence,
		},
		StateWrap: {
			episode.MoveWrap,
			episode.MoveOfferFork,
		},
		StateSafetyHold: {
			episode.MoveSafetyGround,
		},
	}
}

// #endregion move-table

// #region pressure-caps

// PressureCaps are the S&P-enforced hard limits on host pressure.
type PressureCaps struct {
	MaxFollowupsOnTopic    int
	RecursionLimit         int
	MinTurnsBetweenReveals int
	MaxPatternsPerAct      int
	SilenceAfterHeavyTopic bool
}

// DefaultPressureCaps returns the standard cap set.
func DefaultPressureCaps() PressureCaps {
	return PressureCaps{
		MaxFollowupsOnTopic:    3,
		RecursionLimit:         2,
		MinTurnsBetweenReveals: 5,
		MaxPatternsPerAct:      2,
		SilenceAfterHeavyTopic: true,
	}
}

// #endregion pressure-caps

// #region disclosure-policy

// DisclosurePolicy controls when a detected pattern may be named to the user.
type DisclosurePolicy struct {
	MinObservations     int
	MinTurnSpan         int
	RequireCostHint     bool
	BlockIfCriticalRisk bool
}

// DefaultDisclosurePolicy returns the standard disclosure thresholds.
func DefaultDisclosurePolicy() DisclosurePolicy {
	return DisclosurePolicy{
		MinObservations:     2,
		MinTurnSpan:         3,
		RequireCostHint:     true,
		BlockIfCriticalRisk: true,
	}
}

// #endregion disclosure-policy
