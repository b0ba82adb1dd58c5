package reveal

import (
	"strings"
	"testing"

	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

func quoteReceipt() episode.ReceiptCard {
	return episode.ReceiptCard{
		Type:    episode.ReceiptQuote,
		DocRef:  "session-1/turn-4",
		Excerpt: "it was just a thing",
	}
}

func TestCreatePlanWithPermission(t *testing.T) {
	e := NewEngine()
	plan := e.CreatePlan("r1", quoteReceipt(), "the move", true)

	if plan.Status != episode.RevealPending {
		t.Fatalf("new plan should be pending, got %s", plan.Status)
	}
	if !plan.PermissionGate.Required {
		t.Fatal("permission gate should be required")
	}
	if plan.PermissionGate.AskCopy == "" {
		t.Fatal("gated plan should carry ask copy")
	}
	if !plan.Vetoable {
		t.Fatal("every plan must be vetoable")
	}
	if !strings.Contains(plan.TeaseLine, "the move") {
		t.Fatalf("quote tease should name the topic, got %q", plan.TeaseLine)
	}
	if plan.IntegrationPrompt != "What comes up for you hearing that now?" {
		t.Fatalf("unexpected integration prompt %q", plan.IntegrationPrompt)
	}
}

func TestCreatePlanWithoutPermission(t *testing.T) {
	e := NewEngine()
	plan := e.CreatePlan("r2", quoteReceipt(), "the move", false)

	if plan.PermissionGate.Required {
		t.Fatal("permission gate should not be required")
	}
	if plan.PermissionGate.AskCopy != "" {
		t.Fatalf("ungated plan should have empty ask copy, got %q", plan.PermissionGate.AskCopy)
	}
}

func TestTeasePerVariant(t *testing.T) {
	e := NewEngine()

	tape := e.CreatePlan("r3", episode.ReceiptCard{Type: episode.ReceiptMissingTape}, "", true)
	if tape.TeaseLine != "There's a gap in the timeline I'm curious about." {
		t.Fatalf("unexpected missing_tape tease %q", tape.TeaseLine)
	}
	if tape.IntegrationPrompt != "What was happening during that time?" {
		t.Fatalf("unexpected missing_tape prompt %q", tape.IntegrationPrompt)
	}

	photo := e.CreatePlan("r4", episode.ReceiptCard{Type: episode.ReceiptPhoto}, "", true)
	if photo.TeaseLine != "There's an image here that connects to what you're saying." {
		t.Fatalf("unexpected photo tease %q", photo.TeaseLine)
	}
}

func TestAdvanceForwardOnly(t *testing.T) {
	e := NewEngine()
	plan := e.CreatePlan("r5", quoteReceipt(), "the move", true)

	plan, err := Advance(plan, episode.RevealTeased)
	if err != nil {
		t.Fatalf("pending -> teased should work: %v", err)
	}
	plan, err = Advance(plan, episode.RevealPermissionGranted)
	if err != nil {
		t.Fatalf("teased -> permission_granted should work: %v", err)
	}
	plan, err = Advance(plan, episode.RevealRevealed)
	if err != nil {
		t.Fatalf("permission_granted -> revealed should work: %v", err)
	}

	if _, err := Advance(plan, episode.RevealTeased); err == nil {
		t.Fatal("backward move should fail")
	}
}

func TestAdvanceTerminalBranches(t *testing.T) {
	e := NewEngine()

	plan := e.CreatePlan("r6", quoteReceipt(), "the move", true)
	plan, err := Advance(plan, episode.RevealVetoed)
	if err != nil {
		t.Fatalf("any non-terminal status should accept veto: %v", err)
	}
	if _, err := Advance(plan, episode.RevealRevealed); err == nil {
		t.Fatal("vetoed is terminal")
	}

	declined := e.CreatePlan("r7", quoteReceipt(), "the move", true)
	declined, err = Advance(declined, episode.RevealDeclined)
	if err != nil {
		t.Fatalf("decline should work from pending: %v", err)
	}
	if _, err := Advance(declined, episode.RevealTeased); err == nil {
		t.Fatal("declined is terminal")
	}
}
