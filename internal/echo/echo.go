package echo

// #region imports
import (
	"regexp"

	"github.com/google/uuid"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #endregion

// #region config

// Delay controls how long a captured phrase stays on ice before it becomes
// eligible for callback. Callbacks must never feel immediate.
type Delay struct {
	Acts  int
	Turns int
}

// DefaultDelay returns the standard one-act / five-turn holdback.
func DefaultDelay() Delay {
	return Delay{Acts: 1, Turns: 5}
}

// #endregion config

// #region phrase-patterns

// phrasePattern pairs a fixed regex with its echo category.
type phrasePattern struct {
	re       *regexp.Regexp
	category episode.EchoCategory
}

// echoPatterns is the fixed eight-pattern capture set.
var echoPatterns = []phrasePattern{
	{regexp.MustCompile(`(?i)not a big deal`), episode.EchoMinimizer},
	{regexp.MustCompile(`(?i)no choice`), episode.EchoInevitability},
	{regexp.MustCompile(`(?i)had to`), episode.EchoInevitability},
	{regexp.MustCompile(`(?i)i deserved`), episode.EchoShame},
	{regexp.MustCompile(`(?i)my fault`), episode.EchoShame},
	{regexp.MustCompile(`(?i)i froze`), episode.EchoFreeze},
	{regexp.MustCompile(`(?i)couldn't move`), episode.EchoFreeze},
	{regexp.MustCompile(`(?i)i just.*let`), episode.EchoAgency},
}

// #endregion phrase-patterns

// #region engine

// Engine captures recurring verbal motifs and governs callback eligibility.
type Engine struct {
	delay Delay
}

// NewEngine creates an echo engine with the given holdback delay.
func NewEngine(delay Delay) *Engine {
	return &Engine{delay: delay}
}

// #endregion engine

// #region capture

// Capture scans one turn's text and returns an echo for every phrase match,
// stamped with the act and turn at which it becomes eligible.
func (e *Engine) Capture(text, turnID string, currentAct, currentTurn int) []episode.EchoPhrase {
	var captured []episode.EchoPhrase

	for _, p := range echoPatterns {
		for _, match := range p.re.FindAllString(text, -1) {
			captured = append(captured, episode.EchoPhrase{
				ID:                uuid.New().String(),
				Phrase:            match,
				TurnID:            turnID,
				Category:          p.category,
				EligibleAfterAct:  currentAct + e.delay.Acts,
				EligibleAfterTurn: currentTurn + e.delay.Turns,
				Used:              false,
			})
		}
	}

	return captured
}

// #endregion capture

// #region eligible

// Eligible filters to unused echoes whose act OR turn threshold has been
// reached.
func (e *Engine) Eligible(echoes []episode.EchoPhrase, currentAct, currentTurn int) []episode.EchoPhrase {
	var out []episode.EchoPhrase
	for _, ec := range echoes {
		if ec.Used {
			continue
		}
		if ec.EligibleAfterAct <= currentAct || ec.EligibleAfterTurn <= currentTurn {
			out = append(out, ec)
		}
	}
	return out
}

// #endregion eligible
