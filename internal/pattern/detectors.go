package pattern

// #region imports
import (
	"fmt"
	"regexp"
	"strings"

	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #endregion

// #region detection

// detection is the raw output of one detector for one turn.
type detection struct {
	kind       episode.PatternKind
	confidence float64
	evidence   string
}

// #endregion detection

// #region lexical-detectors

var (
	minimizationRe = regexp.MustCompile(`(?i)\b(just|only|not a big deal|no big deal|it's fine|it was nothing|barely)\b`)
	absolutistRe   = regexp.MustCompile(`(?i)\b(always|never|everyone|no one|everything|nothing|completely|totally)\b`)
	agencyShiftRe  = regexp.MustCompile(`(?i)\b(it happened|things happened|it just|was done|got done|ended up)\b`)
	actorOmitRe    = regexp.MustCompile(`(?i)\b(was hit|got hurt|was said|things were|it was decided)\b`)
	humorRe        = regexp.MustCompile(`(?i)\b(haha|lol|just kidding|jk|anyway|but yeah|so anyway)\b`)
	inevitableRe   = regexp.MustCompile(`(?i)\b(had no choice|no other option|forced to|couldn't|had to|no way out|trapped)\b`)
	shameRe        = regexp.MustCompile(`(?i)\b(my fault|i deserved|should have known|stupid of me|i'm so|ashamed|embarrassed)\b`)
	freezeRe       = regexp.MustCompile(`(?i)\b(i froze|couldn't move|couldn't speak|went blank|shut down|paralyz)\b`)
)

// detectors runs in fixed order so detection output is deterministic.
// Three kinds (chronology_skip, over_precision_in_safe_topics,
// repetition_loop) need timeline/topic/history context a single turn's text
// cannot carry; they never fire here but stay in the kind catalog so merged
// signals from enrichment keep their invariants.
var detectors = []struct {
	kind   episode.PatternKind
	detect func(text string) *detection
}{
	{episode.PatternMinimization, func(text string) *detection {
		matches := minimizationRe.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return &detection{
			kind:       episode.PatternMinimization,
			confidence: min(0.5+0.1*float64(len(matches)), 0.9),
			evidence:   strings.Join(matches, ", "),
		}
	}},
	{episode.PatternAbsolutist, func(text string) *detection {
		matches := absolutistRe.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return &detection{
			kind:       episode.PatternAbsolutist,
			confidence: min(0.4+0.15*float64(len(matches)), 0.85),
			evidence:   strings.Join(matches, ", "),
		}
	}},
	{episode.PatternAgencyShift, func(text string) *detection {
		matches := agencyShiftRe.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return &detection{
			kind:       episode.PatternAgencyShift,
			confidence: 0.6,
			evidence:   strings.Join(matches, ", "),
		}
	}},
	{episode.PatternActorOmission, func(text string) *detection {
		matches := actorOmitRe.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return &detection{
			kind:       episode.PatternActorOmission,
			confidence: 0.55,
			evidence:   strings.Join(matches, ", "),
		}
	}},
	{episode.PatternChronologySkip, func(string) *detection { return nil }},
	{episode.PatternHumorDeflection, func(text string) *detection {
		matches := humorRe.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return &detection{
			kind:       episode.PatternHumorDeflection,
			confidence: 0.5,
			evidence:   strings.Join(matches, ", "),
		}
	}},
	{episode.PatternOverPrecision, func(string) *detection { return nil }},
	{episode.PatternBrevitySpike, func(text string) *detection {
		wordCount := len(strings.Fields(text))
		if wordCount >= 5 {
			return nil
		}
		return &detection{
			kind:       episode.PatternBrevitySpike,
			confidence: 0.4,
			evidence:   fmt.Sprintf("%d words", wordCount),
		}
	}},
	{episode.PatternRepetitionLoop, func(string) *detection { return nil }},
	{episode.PatternInevitability, func(text string) *detection {
		matches := inevitableRe.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return &detection{
			kind:       episode.PatternInevitability,
			confidence: 0.7,
			evidence:   strings.Join(matches, ", "),
		}
	}},
	{episode.PatternShameCue, func(text string) *detection {
		matches := shameRe.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return &detection{
			kind:       episode.PatternShameCue,
			confidence: 0.75,
			evidence:   strings.Join(matches, ", "),
		}
	}},
	{episode.PatternFreezeCue, func(text string) *detection {
		matches := freezeRe.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return &detection{
			kind:       episode.PatternFreezeCue,
			confidence: 0.8,
			evidence:   strings.Join(matches, ", "),
		}
	}},
}

// #endregion lexical-detectors
