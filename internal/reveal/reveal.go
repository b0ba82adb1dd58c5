package reveal

// #region imports
import (
	"fmt"

	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #endregion

// #region engine

// Engine builds gated reveal plans from receipt cards. The lifecycle is
// tease → permission → reveal → integrate, and every plan is vetoable.
type Engine struct{}

// NewEngine creates a reveal engine.
func NewEngine() *Engine {
	return &Engine{}
}

// #endregion engine

// #region create-plan

// CreatePlan builds a pending reveal plan for a receipt. The ask copy is
// populated only when permission is required.
func (e *Engine) CreatePlan(id string, receipt episode.ReceiptCard, topic string, requirePermission bool) episode.RevealPlan {
	askCopy := ""
	if requirePermission {
		askCopy = "There's something here that might help us understand this better. Would you like me to share it?"
	}

	return episode.RevealPlan{
		ID:        id,
		TeaseLine: teaseLine(receipt, topic),
		PermissionGate: episode.PermissionGate{
			Required: requirePermission,
			AskCopy:  askCopy,
		},
		Trigger:           "user_permission",
		Payload:           receipt,
		IntegrationPrompt: integrationPrompt(receipt),
		Vetoable:          true,
		Status:            episode.RevealPending,
	}
}

// #endregion create-plan

// #region templates

// teaseLine phrases the tease per receipt variant. Safe to say without
// disclosing the payload.
func teaseLine(receipt episode.ReceiptCard, topic string) string {
	switch receipt.Type {
	case episode.ReceiptQuote:
		return fmt.Sprintf("Earlier, you said something about %s that I've been thinking about.", topic)
	case episode.ReceiptTimelineSnap:
		return "I notice there's a period we haven't explored yet."
	case episode.ReceiptMissingTape:
		return "There's a gap in the timeline I'm curious about."
	case episode.ReceiptPhoto:
		return "There's an image here that connects to what you're saying."
	}
	return "Something you shared earlier might be relevant here."
}

// integrationPrompt phrases the post-reveal question per receipt variant.
func integrationPrompt(receipt episode.ReceiptCard) string {
	switch receipt.Type {
	case episode.ReceiptQuote:
		return "What comes up for you hearing that now?"
	case episode.ReceiptTimelineSnap, episode.ReceiptMissingTape:
		return "What was happening during that time?"
	case episode.ReceiptPhoto:
		return "What do you remember about this?"
	}
	return "How does that land with you?"
}

// #endregion templates

// #region lifecycle

// statusRank orders the forward path of the lifecycle.
var statusRank = map[episode.RevealStatus]int{
	episode.RevealPending:           0,
	episode.RevealTeased:            1,
	episode.RevealPermissionGranted: 2,
	episode.RevealRevealed:          3,
}

// Advance moves a plan to the given status. The lifecycle is strictly
// forward-moving; vetoed and declined are terminal branches reachable from
// any non-terminal status.
func Advance(plan episode.RevealPlan, to episode.RevealStatus) (episode.RevealPlan, error) {
	if plan.Status == episode.RevealVetoed || plan.Status == episode.RevealDeclined {
		return plan, fmt.Errorf("reveal %s is terminal in status %s", plan.ID, plan.Status)
	}
	if to == episode.RevealVetoed || to == episode.RevealDeclined {
		plan.Status = to
		return plan, nil
	}

	fromRank, ok := statusRank[plan.Status]
	if !ok {
		return plan, fmt.Errorf("reveal %s has unknown status %s", plan.ID, plan.Status)
	}
	toRank, ok := statusRank[to]
	if !ok {
		return plan, fmt.Errorf("unknown target status %s", to)
	}
	if toRank <= fromRank {
		return plan, fmt.Errorf("reveal %s cannot move backward from %s to %s", plan.ID, plan.Status, to)
	}

	plan.Status = to
	return plan, nil
}

// #endregion lifecycle
