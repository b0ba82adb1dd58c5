package safety

import (
	"strings"
	"testing"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultPatterns())
	if err != nil {
		t.Fatalf("compile crisis patterns: %v", err)
	}
	return e
}

func TestDetectSelfHarm(t *testing.T) {
	e := newEngine(t)

	sig := e.Detect("sometimes I want to kill myself", "turn-7")
	if sig == nil {
		t.Fatal("expected a safety signal")
	}
	if sig.Type != SignalSelfHarm {
		t.Fatalf("expected imminent_self_harm, got %s", sig.Type)
	}
	if sig.Confidence != 0.8 {
		t.Fatalf("expected confidence 0.8, got %.2f", sig.Confidence)
	}
	if sig.EvidenceTurnID != "turn-7" {
		t.Fatalf("expected evidence turn-7, got %s", sig.EvidenceTurnID)
	}
}

func TestDetectAllCategories(t *testing.T) {
	e := newEngine(t)

	cases := []struct {
		text string
		typ  SignalType
	}{
		{"I want to end my life", SignalSelfHarm},
		{"I'm going to hurt him when I see him", SignalHarmToOthers},
		{"there was a kid and the abuse went on for years", SignalChildExploitation},
		{"honestly I just can't go on like this", SignalAcuteCrisis},
	}
	for _, c := range cases {
		sig := e.Detect(c.text, "turn-1")
		if sig == nil {
			t.Fatalf("expected signal for %q", c.text)
		}
		if sig.Type != c.typ {
			t.Fatalf("text %q: expected %s, got %s", c.text, c.typ, sig.Type)
		}
	}
}

func TestDetectPriorityOrder(t *testing.T) {
	e := newEngine(t)

	// Matches both self-harm and acute-crisis vocab; self-harm wins.
	sig := e.Detect("I want to die, there's no point", "turn-2")
	if sig == nil || sig.Type != SignalSelfHarm {
		t.Fatalf("expected imminent_self_harm to take priority, got %+v", sig)
	}
}

func TestDetectNothingOnOrdinaryText(t *testing.T) {
	e := newEngine(t)
	if sig := e.Detect("we argued a lot back then but it passed", "turn-3"); sig != nil {
		t.Fatalf("ordinary text should not trigger, got %s", sig.Type)
	}
}

func TestResponsesCarryCrisisLines(t *testing.T) {
	if r := Response(SignalSelfHarm); !strings.Contains(r, "988") {
		t.Fatalf("self-harm response should carry the 988 line, got %q", r)
	}
	if r := Response(SignalChildExploitation); !strings.Contains(r, "1-800-422-4453") {
		t.Fatalf("child-exploitation response should carry the hotline, got %q", r)
	}
	if r := Response(SignalHarmToOthers); !strings.Contains(r, "emergency services") {
		t.Fatalf("harm-to-others response should point at emergency services, got %q", r)
	}
	if r := Response(SignalAcuteCrisis); !strings.Contains(r, "988 Suicide & Crisis Lifeline") {
		t.Fatalf("acute-crisis response should name the lifeline, got %q", r)
	}
}
