package episode

// #region pattern-kind

// PatternKind is one of the twelve observable, non-clinical speech patterns.
type PatternKind string

const (
	PatternMinimization    PatternKind = "minimization_language"
	PatternAbsolutist      PatternKind = "absolutist_language"
	PatternAgencyShift     PatternKind = "agency_shift_active_to_passive"
	PatternActorOmission   PatternKind = "actor_omission"
	PatternChronologySkip  PatternKind = "chronology_skip"
	PatternHumorDeflection PatternKind = "humor_deflection"
	PatternOverPrecision   PatternKind = "over_precision_in_safe_topics"
	PatternBrevitySpike    PatternKind = "brevity_spike"
	PatternRepetitionLoop  PatternKind = "repetition_loop"
	PatternInevitability   PatternKind = "inevitability_language"
	PatternShameCue        PatternKind = "shame_cue"
	PatternFreezeCue       PatternKind = "freeze_cue"
)

// AllPatternKinds returns the fixed pattern-kind catalog in declaration order.
func AllPatternKinds() []PatternKind {
	return []PatternKind{
		PatternMinimization, PatternAbsolutist, PatternAgencyShift,
		PatternActorOmission, PatternChronologySkip, PatternHumorDeflection,
		PatternOverPrecision, PatternBrevitySpike, PatternRepetitionLoop,
		PatternInevitability, PatternShameCue, PatternFreezeCue,
	}
}

// PatternSignal is the running record of one observed pattern kind.
// Invariant: at most one signal per kind per episode; repeats merge.
type PatternSignal struct {
	Kind            PatternKind `json:"kind"`
	EvidenceTurnIDs []string    `json:"evidence_turn_ids"`
	Confidence      float64     `json:"confidence_0_1"`
	CostHint        string      `json:"cost_hint,omitempty"`
	FirstSeenTurn   int         `json:"first_seen_turn"`
	LastSeenTurn    int         `json:"last_seen_turn"`
	OccurrenceCount int         `json:"occurrence_count"`
}

// #endregion pattern-kind

// #region receipt-card

// ReceiptCardType selects the evidentiary payload variant.
type ReceiptCardType string

const (
	ReceiptQuote        ReceiptCardType = "quote"
	ReceiptTimelineSnap ReceiptCardType = "timeline_snap"
	ReceiptPhoto        ReceiptCardType = "photo"
	ReceiptMissingTape  ReceiptCardType = "missing_tape"
)

// HighlightSpan marks a byte range inside a quoted excerpt.
type HighlightSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ReceiptCard is the evidentiary payload of a reveal. Only the fields for
// its variant type are populated.
type ReceiptCard struct {
	Type ReceiptCardType `json:"type"`

	// quote
	DocRef         string          `json:"doc_ref,omitempty"`
	Excerpt        string          `json:"excerpt,omitempty"`
	HighlightSpans []HighlightSpan `json:"highlight_spans,omitempty"`

	// timeline_snap / missing_tape
	DateStart        string `json:"date_start,omitempty"`
	DateEnd          string `json:"date_end,omitempty"`
	EventDescription string `json:"event_description,omitempty"`
	IsGap            bool   `json:"is_gap,omitempty"`
	GapDescription   string `json:"gap_description,omitempty"`

	// photo
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

// JumbotronTiming places the receipt relative to the host's speech.
type JumbotronTiming string

const (
	JumbotronBeforeSpeech JumbotronTiming = "before_speech"
	JumbotronDuringSpeech JumbotronTiming = "during_speech"
	JumbotronAfterSpeech  JumbotronTiming = "after_speech"
)

// JumbotronCue pairs a receipt with its display timing.
type JumbotronCue struct {
	TriggerTiming JumbotronTiming `json:"trigger_timing"`
	Payload       ReceiptCard     `json:"payload"`
}

// #endregion receipt-card

// #region reveal-plan

// RevealStatus tracks the tease → permission → reveal → integrate lifecycle.
// Forward-moving only; vetoed and declined are terminal branches.
type RevealStatus string

const (
	RevealPending           RevealStatus = "pending"
	RevealTeased            RevealStatus = "teased"
	RevealPermissionGranted RevealStatus = "permission_granted"
	RevealRevealed          RevealStatus = "revealed"
	RevealVetoed            RevealStatus = "vetoed"
	RevealDeclined          RevealStatus = "declined"
)

// PermissionGate guards a reveal behind explicit user consent.
type PermissionGate struct {
	Required bool   `json:"required"`
	AskCopy  string `json:"ask_copy"`
}

// RevealPlan is a gated plan for surfacing one receipt.
// Vetoable is always true: S&P may block any reveal at any point.
type RevealPlan struct {
	ID                string         `json:"id"`
	TeaseLine         string         `json:"tease_line"`
	PermissionGate    PermissionGate `json:"permission_gate"`
	Trigger           string         `json:"trigger"`
	Payload           ReceiptCard    `json:"payload"`
	IntegrationPrompt string         `json:"integration_prompt"`
	Vetoable          bool           `json:"vetoable"`
	Status            RevealStatus   `json:"status"`
}

// #endregion reveal-plan

// #region story-map

// Mention ties a character reference back to its originating turn.
type Mention struct {
	TurnID  string `json:"turn_id"`
	Context string `json:"context"`
}

// Character is a person in the user's story.
type Character struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship,omitempty"`
	Mentions     []Mention `json:"mentions"`
}

// Place is a location in the user's story.
type Place struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Significance string   `json:"significance,omitempty"`
	Mentions     []string `json:"mentions"` // turn ids
}

// Moment is a discrete remembered event.
type Moment struct {
	ID              string   `json:"id"`
	Description     string   `json:"description"`
	Date            string   `json:"date,omitempty"`
	EmotionalWeight float64  `json:"emotional_weight"`
	TurnIDs         []string `json:"turn_ids"`
}

// StoryMap is the accumulating map of characters, places, and moments.
type StoryMap struct {
	Characters []Character `json:"characters"`
	Places     []Place     `json:"places"`
	Moments    []Moment    `json:"moments"`
}

// #endregion story-map

// #region timeline

// TimelineConfidence grades how well a dated event is established.
type TimelineConfidence string

const (
	TimelineConfirmed TimelineConfidence = "confirmed"
	TimelineStated    TimelineConfidence = "stated"
	TimelineInferred  TimelineConfidence = "inferred"
)

// TimelineEvent is one dated event on the episode timeline.
type TimelineEvent struct {
	ID           string             `json:"id"`
	Date         string             `json:"date"` // YYYY-MM-DD
	Description  string             `json:"description"`
	EvidenceRefs []string           `json:"evidence_refs"`
	Confidence   TimelineConfidence `json:"confidence"`
}

// #endregion timeline

// #region open-loop

// LoopStatus is the lifecycle of an unresolved topic thread.
type LoopStatus string

const (
	LoopOpen               LoopStatus = "open"
	LoopPartiallyAddressed LoopStatus = "partially_addressed"
	LoopClosed             LoopStatus = "closed"
)

// OpenLoop is an unresolved topic with a priority driving reveal pacing.
type OpenLoop struct {
	ID              string        `json:"id"`
	Topic           string        `json:"topic"`
	OpenedAtTurn    int           `json:"opened_at_turn"`
	Priority        int           `json:"priority"` // 1-10
	Status          LoopStatus    `json:"status"`
	RelatedPatterns []PatternKind `json:"related_patterns"`
}

// #endregion open-loop

// #region echo-phrase

// EchoCategory buckets an echo phrase by the voice it echoes.
type EchoCategory string

const (
	EchoMinimizer     EchoCategory = "minimizer"
	EchoInevitability EchoCategory = "inevitability"
	EchoShame         EchoCategory = "shame"
	EchoAgency        EchoCategory = "agency"
	EchoFreeze        EchoCategory = "freeze"
)

// EchoPhrase is a verbatim user phrase held in reserve for a delayed callback.
type EchoPhrase struct {
	ID                string       `json:"id"`
	Phrase            string       `json:"phrase"`
	TurnID            string       `json:"turn_id"`
	Category          EchoCategory `json:"category"`
	EligibleAfterAct  int          `json:"eligible_after_act"`
	EligibleAfterTurn int          `json:"eligible_after_turn"`
	Used              bool         `json:"used"`
}

// #endregion echo-phrase

// #region claims

// SupportLevel grades how well a claim is backed.
type SupportLevel string

const (
	ClaimSupported    SupportLevel = "supported"
	ClaimUnsupported  SupportLevel = "unsupported"
	ClaimUnclear      SupportLevel = "unclear"
	ClaimContradicted SupportLevel = "contradicted"
)

// Claim is one statement in the claims ledger.
type Claim struct {
	ID           string       `json:"id"`
	Statement    string       `json:"statement"`
	TurnID       string       `json:"turn_id"`
	SupportLevel SupportLevel `json:"support_level"`
	EvidenceRefs []string     `json:"evidence_refs"`
}

// ContradictionType distinguishes self-contradiction from document conflict.
type ContradictionType string

const (
	ContradictionUserVsUser ContradictionType = "user_vs_user"
	ContradictionUserVsDocs ContradictionType = "user_vs_docs"
)

// ContradictionSeverity grades a contradiction.
type ContradictionSeverity string

const (
	SeverityMinor       ContradictionSeverity = "minor"
	SeveritySignificant ContradictionSeverity = "significant"
	SeverityMajor       ContradictionSeverity = "major"
)

// Contradiction pairs two conflicting claims.
type Contradiction struct {
	ID        string                `json:"id"`
	ClaimAID  string                `json:"claim_a_id"`
	ClaimBID  string                `json:"claim_b_id"`
	Type      ContradictionType     `json:"type"`
	Severity  ContradictionSeverity `json:"severity"`
	Addressed bool                  `json:"addressed"`
}

// #endregion claims

// #region metrics

// Metrics are the running per-episode counters.
type Metrics struct {
	QuestionDensity    float64 `json:"question_density"`
	SilenceUtilization float64 `json:"silence_utilization"`
	CallbackRate       float64 `json:"callback_rate"`
	EarnedRevealRate   float64 `json:"earned_reveal_rate"`
	PressureViolations int     `json:"pressure_violations"`
	CurrentAct         int     `json:"current_act"`
	CurrentTurn        int     `json:"current_turn"`
}

// #endregion metrics

// #region safety-incident

// SafetyIncident records one safety-triggered turn.
type SafetyIncident struct {
	TurnID   string `json:"turn_id"`
	Type     string `json:"type"`
	Response string `json:"response"`
}

// #endregion safety-incident

// #region episode-state

// EpisodeState is the control room's memory for one session. It is owned
// exclusively by that session and mutated only through the per-turn pipeline.
type EpisodeState struct {
	SessionID          string           `json:"session_id"`
	UserID             string           `json:"user_id"`
	StoryMap           StoryMap         `json:"story_map"`
	Timeline           []TimelineEvent  `json:"timeline"`
	OpenLoops          []OpenLoop       `json:"open_loops"`
	EchoPhrases        []EchoPhrase     `json:"echo_phrases"`
	ClaimsLedger       []Claim          `json:"claims_ledger"`
	ContradictionIndex []Contradiction  `json:"contradiction_index"`
	Metrics            Metrics          `json:"metrics"`
	PatternSignals     []PatternSignal  `json:"pattern_signals"`
	RevealPlans        []RevealPlan     `json:"reveal_plans"`
	SafetyIncidents    []SafetyIncident `json:"safety_incidents"`
}

// New creates an empty episode at act 1, turn 0.
func New(sessionID, userID string) EpisodeState {
	return EpisodeState{
		SessionID: sessionID,
		UserID:    userID,
		Metrics: Metrics{
			CurrentAct:  1,
			CurrentTurn: 0,
		},
	}
}

// FirstOpenLoop returns the first loop with status open, or nil.
func (e *EpisodeState) FirstOpenLoop() *OpenLoop {
	for i := range e.OpenLoops {
		if e.OpenLoops[i].Status == LoopOpen {
			return &e.OpenLoops[i]
		}
	}
	return nil
}

// #endregion episode-state
