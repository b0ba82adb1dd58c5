package episode

// #region host-move

// HostMove is one of the fifteen locked moves the host may execute in a turn.
type HostMove string

const (
	MovePinToSpecifics   HostMove = "PIN_TO_SPECIFICS"    // demand concrete detail from a vague statement
	MoveMirrorLanguage   HostMove = "MIRROR_LANGUAGE"     // repeat the user's exact words back
	MoveNameTheShift     HostMove = "NAME_THE_SHIFT"      // observe a change in speech pattern, never label the person
	MoveStateAndStop     HostMove = "STATE_AND_STOP"      // non-question statement followed by deliberate silence
	MoveOfferFork        HostMove = "OFFER_FORK"          // "stay here or step sideways?"
	MoveReturnToOpenLoop HostMove = "RETURN_TO_OPEN_LOOP" // delayed callback to an earlier thread
	MoveBridgeThread     HostMove = "BRIDGE_THREAD"       // connect two distant moments
	MoveLightPress       HostMove = "LIGHT_PRESS"         // single follow-up only, no recursion
	MoveUtilitarianCheck HostMove = "UTILITARIAN_CHECK"   // "how's that working?" without shaming
	MovePatternPause     HostMove = "PATTERN_PAUSE"       // name the pattern, then stop
	MoveEarnedReveal     HostMove = "EARNED_REVEAL"       // execute an approved reveal plan
	MoveCommercialBreak  HostMove = "COMMERCIAL_BREAK"    // synthesis pause
	MoveWrap             HostMove = "WRAP"                // recap plus consent for follow-ups
	MoveSilence          HostMove = "SILENCE"             // deliberate pause with minimal continuer
	MoveSafetyGround     HostMove = "SAFETY_GROUND"       // safety escalation response
)

// AllMoves returns the full fifteen-move universe in declaration order.
func AllMoves() []HostMove {
	return []HostMove{
		MovePinToSpecifics, MoveMirrorLanguage, MoveNameTheShift,
		MoveStateAndStop, MoveOfferFork, MoveReturnToOpenLoop,
		MoveBridgeThread, MoveLightPress, MoveUtilitarianCheck,
		MovePatternPause, MoveEarnedReveal, MoveCommercialBreak,
		MoveWrap, MoveSilence, MoveSafetyGround,
	}
}

// #endregion host-move

// #region posture-tone

// Posture is the physical stance relayed to the host.
type Posture string

const (
	PostureLeanIn       Posture = "lean_in"
	PostureLeanBack     Posture = "lean_back"
	PostureSilence      Posture = "silence"
	PostureConfrontSoft Posture = "confront_soft"
	PostureConfrontFirm Posture = "confront_firm"
)

// Tone is the vocal register relayed to the host.
type Tone string

const (
	ToneWarmAuthority      Tone = "warm_authority"
	ToneGentleCuriosity    Tone = "gentle_curiosity"
	ToneSkepticalPrecision Tone = "skeptical_precision"
)

// #endregion posture-tone

// #region risk-safety

// RiskLevel grades the current turn's emotional risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskElevated RiskLevel = "elevated"
	RiskCritical RiskLevel = "critical"
)

// SafetyMode tells the host how much ground to give.
type SafetyMode string

const (
	SafetyNormal        SafetyMode = "normal"
	SafetyCautious      SafetyMode = "cautious"
	SafetyStopAndGround SafetyMode = "stop_and_ground"
)

// #endregion risk-safety

// #region feed-status

// FeedStatus is the broadcast status of the episode at feed time.
type FeedStatus string

const (
	FeedLive            FeedStatus = "live"
	FeedCommercialBreak FeedStatus = "commercial_break"
	FeedWrap            FeedStatus = "wrap"
)

// #endregion feed-status
