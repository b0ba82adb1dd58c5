package governor

// #region imports
import (
	"fmt"
	"regexp"

	"github.com/proveniq/origins/go-controlroom/internal/director"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #endregion

// #region veto

// Veto is the outcome of an S&P review. Alternative is empty when no
// substitute move is offered.
type Veto struct {
	Vetoed      bool
	Reason      string
	Alternative episode.HostMove
}

// approve is the non-veto outcome.
func approve() Veto {
	return Veto{}
}

// #endregion veto

// #region config

// Config is the S&P rulebook: the banned-phrase blacklist plus the pressure
// and inevitability floors. The blacklist is a reviewable policy artifact,
// not code.
type Config struct {
	BannedPhrases       []string
	MaxFollowupsOnTopic int
	MinInevitability    float64
}

// DefaultBannedPhrases returns the standard blacklist: fake authority,
// diagnosis and labeling, therapy cosplay, audience framing, AI
// self-disclosure.
func DefaultBannedPhrases() []string {
	return []string{
		`polygraph`,
		`deception indicated`,
		`the audience`,
		`viewers think`,
		`narcissist`,
		`toxic`,
		`delusional`,
		`as an ai`,
		`i'm not a therapist`,
	}
}

// DefaultConfig returns the standard S&P rulebook.
func DefaultConfig() Config {
	return Config{
		BannedPhrases:       DefaultBannedPhrases(),
		MaxFollowupsOnTopic: 3,
		MinInevitability:    0.5,
	}
}

// #endregion config

// #region governor

// Governor is the Standards & Practices veto gate between move proposal and
// execution.
type Governor struct {
	banned              []*regexp.Regexp
	maxFollowupsOnTopic int
	minInevitability    float64
}

// New compiles the rulebook into a governor.
func New(cfg Config) (*Governor, error) {
	banned := make([]*regexp.Regexp, 0, len(cfg.BannedPhrases))
	for _, p := range cfg.BannedPhrases {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compile banned phrase %q: %w", p, err)
		}
		banned = append(banned, re)
	}
	return &Governor{
		banned:              banned,
		maxFollowupsOnTopic: cfg.MaxFollowupsOnTopic,
		minInevitability:    cfg.MinInevitability,
	}, nil
}

// #endregion governor

// #region review-move

// ReviewMove vetoes a proposed move when risk demands grounding, the
// instruction contains banned behavior, or the pressure cap is exhausted.
func (g *Governor) ReviewMove(move episode.HostMove, instruction string, ctx director.Context, risk episode.RiskLevel) Veto {
	if risk == episode.RiskCritical && move != episode.MoveSafetyGround {
		return Veto{
			Vetoed:      true,
			Reason:      "Critical risk level - safety protocol required",
			Alternative: episode.MoveSafetyGround,
		}
	}

	if g.containsBannedBehavior(instruction) {
		return Veto{
			Vetoed:      true,
			Reason:      "Instruction contains banned behavior",
			Alternative: episode.MoveMirrorLanguage,
		}
	}

	if ctx.ConsecutiveFollowups >= g.maxFollowupsOnTopic && move == episode.MoveLightPress {
		return Veto{
			Vetoed:      true,
			Reason:      "Pressure cap reached on topic",
			Alternative: episode.MoveOfferFork,
		}
	}

	return approve()
}

// #endregion review-move

// #region review-reveal

// ReviewReveal vetoes reveals that skip the permission gate on sensitive
// payloads or arrive before the topic is ready.
func (g *Governor) ReviewReveal(plan episode.RevealPlan, inevitabilityScore float64) Veto {
	if !plan.PermissionGate.Required && plan.Payload.Type == episode.ReceiptQuote {
		return Veto{
			Vetoed: true,
			Reason: "Quote reveals require permission gate",
		}
	}

	if inevitabilityScore < g.minInevitability {
		return Veto{
			Vetoed:      true,
			Reason:      "Truth not yet inevitable - more groundwork needed",
			Alternative: episode.MoveReturnToOpenLoop,
		}
	}

	return approve()
}

// #endregion review-reveal

// #region banned

func (g *Governor) containsBannedBehavior(text string) bool {
	for _, re := range g.banned {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// #endregion banned
