package safety

// #region imports
import (
	"fmt"
	"regexp"
	"time"
)

// #endregion

// #region signal

// SignalType is one of the four crisis categories, in detection priority
// order.
type SignalType string

const (
	SignalSelfHarm          SignalType = "imminent_self_harm"
	SignalHarmToOthers      SignalType = "imminent_harm_to_others"
	SignalChildExploitation SignalType = "child_exploitation_disclosure"
	SignalAcuteCrisis       SignalType = "acute_crisis"
)

// Signal is a detected crisis indicator.
type Signal struct {
	Type           SignalType
	Confidence     float64
	EvidenceTurnID string
	TriggeredAt    time.Time
}

// #endregion signal

// #region patterns

// CrisisPattern pairs a detection regex with its signal type. The full
// pattern set is a reviewable policy artifact: detection completeness
// depends entirely on this list, so changes go through policy review, not
// silent tuning.
type CrisisPattern struct {
	Pattern string
	Type    SignalType
}

// DefaultPatterns returns the standard four-pattern crisis set in priority
// order.
func DefaultPatterns() []CrisisPattern {
	return []CrisisPattern{
		{Pattern: `(?i)\b(kill myself|end my life|suicide|want to die)\b`, Type: SignalSelfHarm},
		{Pattern: `(?i)\b(going to hurt|going to kill|harm them|attack)\b`, Type: SignalHarmToOthers},
		{Pattern: `(?i)\b(child|minor|kid).*(abuse|molest|touch)`, Type: SignalChildExploitation},
		{Pattern: `(?i)\b(can't go on|no point|give up|end it)\b`, Type: SignalAcuteCrisis},
	}
}

// #endregion patterns

// #region engine

type compiledPattern struct {
	re  *regexp.Regexp
	typ SignalType
}

// Engine is the deterministic crisis detector. It runs first in the turn
// pipeline and short-circuits everything else when it fires.
type Engine struct {
	patterns []compiledPattern
}

// NewEngine compiles the crisis pattern set.
func NewEngine(patterns []CrisisPattern) (*Engine, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile crisis pattern %q: %w", p.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, typ: p.Type})
	}
	return &Engine{patterns: compiled}, nil
}

// #endregion engine

// #region detect

// Detect returns the first crisis match in priority order, or nil.
func (e *Engine) Detect(text, turnID string) *Signal {
	for _, p := range e.patterns {
		if p.re.MatchString(text) {
			return &Signal{
				Type:           p.typ,
				Confidence:     0.8,
				EvidenceTurnID: turnID,
				TriggeredAt:    time.Now().UTC(),
			}
		}
	}
	return nil
}

// #endregion detect

// #region response

// Response returns the canned grounding copy for a signal type, verbatim,
// including crisis-line contact information.
func Response(t SignalType) string {
	switch t {
	case SignalSelfHarm:
		return "I want to pause here. What you're sharing sounds really heavy. If you're having thoughts of hurting yourself, please reach out to a crisis line: 988 (US) or text HOME to 741741. I'm here to listen, but your safety matters most right now."
	case SignalHarmToOthers:
		return "I need to pause. If you or someone else is in immediate danger, please contact emergency services. We can continue when you're safe."
	case SignalChildExploitation:
		return "I need to pause here. What you're describing is serious. If a child is in danger, please contact local authorities or the Childhelp National Child Abuse Hotline: 1-800-422-4453."
	case SignalAcuteCrisis:
		return "I hear that you're struggling. That takes courage to share. If you're in crisis, please know that support is available: 988 Suicide & Crisis Lifeline. I'm here when you're ready to continue."
	}
	return ""
}

// #endregion response
