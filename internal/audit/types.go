package audit

import (
	"time"

	"github.com/google/uuid"
)

// #region event-type

// EventType is the fixed audit vocabulary. Every significant transition in
// an episode emits exactly one of these.
type EventType string

const (
	EventSessionStart             EventType = "session_start"
	EventTurnReceived             EventType = "turn_received"
	EventPatternDetected          EventType = "pattern_detected"
	EventPatternDisclosed         EventType = "pattern_disclosed"
	EventMoveSelected             EventType = "move_selected"
	EventMoveExecuted             EventType = "move_executed"
	EventRevealTeased             EventType = "reveal_teased"
	EventRevealPermissionAsked    EventType = "reveal_permission_asked"
	EventRevealPermissionGranted  EventType = "reveal_permission_granted"
	EventRevealPermissionDeclined EventType = "reveal_permission_declined"
	EventRevealExecuted           EventType = "reveal_executed"
	EventRevealVetoed             EventType = "reveal_vetoed"
	EventSafetyTriggered          EventType = "safety_triggered"
	EventSPVeto                   EventType = "sp_veto"
	EventCommercialBreak          EventType = "commercial_break"
	EventActTransition            EventType = "act_transition"
	EventSessionEnd               EventType = "session_end"
)

// #endregion event-type

// #region event

// Event is one audit record. The engine emits these as data; persistence is
// the caller's concern.
type Event struct {
	ID         string         `json:"id"`
	SessionID  string         `json:"session_id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	TurnNumber int            `json:"turn_number"`
	ActNumber  int            `json:"act_number"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// NewEvent stamps a fresh audit event.
func NewEvent(sessionID string, t EventType, turn, act int, payload map[string]any) Event {
	return Event{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Type:       t,
		Timestamp:  time.Now().UTC(),
		TurnNumber: turn,
		ActNumber:  act,
		Payload:    payload,
	}
}

// #endregion event
