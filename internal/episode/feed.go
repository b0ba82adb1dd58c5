package episode

// #region feed-parts

// MoveInstruction pairs a move with its single actionable line.
type MoveInstruction struct {
	Move        HostMove `json:"move"`
	Instruction string   `json:"instruction"`
}

// PressureCapsSnapshot is the cap state relayed with each feed.
type PressureCapsSnapshot struct {
	MaxFollowupsOnTopic int `json:"max_followups_on_topic"`
	RecursionLimit      int `json:"recursion_limit"`
}

// Guardrails are the hard limits the host must honor this turn.
type Guardrails struct {
	ForbiddenInitiations     []string   `json:"forbidden_initiations"`
	PermissionRequiredTopics []string   `json:"permission_required_topics"`
	RiskLevel                RiskLevel  `json:"risk_level"`
	SafetyMode               SafetyMode `json:"safety_mode"`
}

// PatternState reports detected patterns and whether disclosure is allowed.
type PatternState struct {
	Detected          []PatternSignal `json:"detected"`
	DisclosureAllowed bool            `json:"disclosure_allowed"`
	DisclosureReason  string          `json:"disclosure_reason,omitempty"`
}

// InevitabilitySnapshot is the readiness score relayed with each feed.
type InevitabilitySnapshot struct {
	Score              float64 `json:"score"`
	Rationale          string  `json:"rationale"`
	ThresholdForReveal float64 `json:"threshold_for_reveal"`
}

// #endregion feed-parts

// #region earpiece-feed

// EarpieceFeed is the engine's sole output per turn: the structured
// instruction set the downstream persona layer must honor.
type EarpieceFeed struct {
	Status        FeedStatus            `json:"status"`
	Act           string                `json:"act"`
	Move          HostMove              `json:"move"`
	Posture       Posture               `json:"posture"`
	Tone          Tone                  `json:"tone"`
	Instruction   string                `json:"instruction"`
	Alternates    []MoveInstruction     `json:"alternates"` // at most 2
	PressureCaps  PressureCapsSnapshot  `json:"pressure_caps"`
	Guardrails    Guardrails            `json:"guardrails"`
	PatternState  PatternState          `json:"pattern_state"`
	Inevitability InevitabilitySnapshot `json:"inevitability"`
	RevealPlan    *RevealPlan           `json:"reveal_plan,omitempty"`
	JumbotronCue  *JumbotronCue         `json:"jumbotron_cue,omitempty"`
}

// #endregion earpiece-feed
