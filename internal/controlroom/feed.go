package controlroom

// #region imports
import (
	"fmt"
	"strings"

	"github.com/proveniq/origins/go-controlroom/internal/director"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
	"github.com/proveniq/origins/go-controlroom/internal/inevitability"
)

// #endregion

// #region proposal

// MoveProposal is a primary move plus up to two alternates.
type MoveProposal struct {
	Primary    episode.MoveInstruction
	Alternates []episode.MoveInstruction
}

// proposeMove runs the proposal ladder: each rung fires only when its move is
// legal in the current director state, so the same ladder yields different
// moves in different acts.
func (r *Room) proposeMove(
	userMessage string,
	dctx director.Context,
	patterns []episode.PatternSignal,
	eligibleEchoes []episode.EchoPhrase,
	score inevitability.Score,
) MoveProposal {
	wordCount := len(strings.Fields(userMessage))
	available := r.director.AvailableMoves(dctx.State)

	// Short or vague response: pin them to a concrete moment.
	if wordCount < 10 && contains(available, episode.MovePinToSpecifics) {
		return MoveProposal{
			Primary: episode.MoveInstruction{
				Move:        episode.MovePinToSpecifics,
				Instruction: "Ask for the specific moment or image.",
			},
			Alternates: []episode.MoveInstruction{
				{Move: episode.MoveMirrorLanguage, Instruction: "Reflect their words back."},
				{Move: episode.MoveSilence, Instruction: "Wait. Let them fill the space."},
			},
		}
	}

	// A captured phrase has matured: call it back.
	if len(eligibleEchoes) > 0 && contains(available, episode.MoveReturnToOpenLoop) {
		return MoveProposal{
			Primary: episode.MoveInstruction{
				Move:        episode.MoveReturnToOpenLoop,
				Instruction: fmt.Sprintf("Callback to: %q", eligibleEchoes[0].Phrase),
			},
			Alternates: []episode.MoveInstruction{
				{Move: episode.MoveMirrorLanguage, Instruction: "Reflect first, callback later."},
				{Move: episode.MoveBridgeThread, Instruction: "Connect this to the earlier moment."},
			},
		}
	}

	// A pattern has crossed the disclosure bar: name it, gently.
	if disclosable := firstDisclosable(r.director, patterns); disclosable != nil && contains(available, episode.MovePatternPause) {
		label := disclosable.CostHint
		if label == "" {
			label = string(disclosable.Kind)
		}
		return MoveProposal{
			Primary: episode.MoveInstruction{
				Move:        episode.MovePatternPause,
				Instruction: "Name the pattern: " + label,
			},
			Alternates: []episode.MoveInstruction{
				{Move: episode.MoveStateAndStop, Instruction: "Make an observation, then silence."},
				{Move: episode.MoveOfferFork, Instruction: "Give them a choice to go deeper or sideways."},
			},
		}
	}

	// Convergence is building: state what is heard and hold.
	if score.Score >= score.ThresholdConfrontSoft {
		return MoveProposal{
			Primary: episode.MoveInstruction{
				Move:        episode.MoveStateAndStop,
				Instruction: "Make an observation about what you're hearing. Then stop.",
			},
			Alternates: []episode.MoveInstruction{
				{Move: episode.MoveUtilitarianCheck, Instruction: "Ask how this is working for them."},
				{Move: episode.MoveLightPress, Instruction: "One gentle follow-up."},
			},
		}
	}

	return MoveProposal{
		Primary: episode.MoveInstruction{
			Move:        episode.MoveMirrorLanguage,
			Instruction: "Reflect their exact words. Let them hear themselves.",
		},
		Alternates: []episode.MoveInstruction{
			{Move: episode.MoveSilence, Instruction: "Wait. Give them space."},
			{Move: episode.MoveOfferFork, Instruction: "Stay here or explore something else?"},
		},
	}
}

func contains(moves []episode.HostMove, m episode.HostMove) bool {
	for _, v := range moves {
		if v == m {
			return true
		}
	}
	return false
}

// firstDisclosable finds the first pattern past the disclosure bar at low
// risk, mirroring the proposal ladder's optimistic check; the feed itself
// filters against the actual risk level.
func firstDisclosable(d *director.Director, patterns []episode.PatternSignal) *episode.PatternSignal {
	for i := range patterns {
		if d.IsDisclosureAllowed(patterns[i], episode.RiskLow) {
			return &patterns[i]
		}
	}
	return nil
}

// #endregion proposal

// #region feed-assembly

// assembleFeed builds the per-turn earpiece feed from the pipeline's outputs.
func (r *Room) assembleFeed(
	dctx director.Context,
	ep episode.EpisodeState,
	topLoop *episode.OpenLoop,
	final episode.MoveInstruction,
	alternates []episode.MoveInstruction,
	merged []episode.PatternSignal,
	disclosable []episode.PatternSignal,
	score inevitability.Score,
	risk episode.RiskLevel,
) episode.EarpieceFeed {
	status := episode.FeedLive
	switch dctx.State {
	case director.StateCommercialBreak:
		status = episode.FeedCommercialBreak
	case director.StateWrap:
		status = episode.FeedWrap
	}

	actTopic := "Opening"
	if topLoop != nil {
		actTopic = topLoop.Topic
	}

	var permissionTopics []string
	for _, l := range ep.OpenLoops {
		if l.Priority >= 8 {
			permissionTopics = append(permissionTopics, l.Topic)
		}
	}

	if len(alternates) > 2 {
		alternates = alternates[:2]
	}

	caps := r.director.Caps()
	feed := episode.EarpieceFeed{
		Status:      status,
		Act:         fmt.Sprintf("Act %d: %s", ep.Metrics.CurrentAct, actTopic),
		Move:        final.Move,
		Posture:     determinePosture(final.Move, score.Score),
		Tone:        determineTone(final.Move, risk),
		Instruction: final.Instruction,
		Alternates:  alternates,
		PressureCaps: episode.PressureCapsSnapshot{
			MaxFollowupsOnTopic: caps.MaxFollowupsOnTopic,
			RecursionLimit:      caps.RecursionLimit,
		},
		Guardrails: episode.Guardrails{
			ForbiddenInitiations:     []string{"polygraph", "diagnosis", "therapy"},
			PermissionRequiredTopics: permissionTopics,
			RiskLevel:                risk,
			SafetyMode:               episode.SafetyNormal,
		},
		PatternState: episode.PatternState{
			Detected:          merged,
			DisclosureAllowed: len(disclosable) > 0,
		},
		Inevitability: episode.InevitabilitySnapshot{
			Score:              score.Score,
			Rationale:          score.Rationale,
			ThresholdForReveal: score.ThresholdReveal,
		},
	}
	if len(disclosable) > 0 {
		feed.PatternState.DisclosureReason = fmt.Sprintf("%s observed %d times",
			disclosable[0].Kind, disclosable[0].OccurrenceCount)
	}
	return feed
}

// safetyFeed is the minimal feed for a safety hold: one move, zeroed caps,
// everything forbidden.
func (r *Room) safetyFeed(response string) episode.EarpieceFeed {
	return episode.EarpieceFeed{
		Status:       episode.FeedLive,
		Act:          "Safety Hold",
		Move:         episode.MoveSafetyGround,
		Posture:      episode.PostureLeanBack,
		Tone:         episode.ToneWarmAuthority,
		Instruction:  response,
		Alternates:   []episode.MoveInstruction{},
		PressureCaps: episode.PressureCapsSnapshot{MaxFollowupsOnTopic: 0, RecursionLimit: 0},
		Guardrails: episode.Guardrails{
			ForbiddenInitiations:     []string{"all"},
			PermissionRequiredTopics: []string{},
			RiskLevel:                episode.RiskCritical,
			SafetyMode:               episode.SafetyStopAndGround,
		},
		PatternState: episode.PatternState{Detected: []episode.PatternSignal{}},
		Inevitability: episode.InevitabilitySnapshot{
			Score:              0,
			Rationale:          "Safety override",
			ThresholdForReveal: 1,
		},
	}
}

// #endregion feed-assembly

// #region posture-tone

func determinePosture(move episode.HostMove, inevitabilityScore float64) episode.Posture {
	switch move {
	case episode.MoveSilence:
		return episode.PostureSilence
	case episode.MoveStateAndStop:
		return episode.PostureLeanBack
	case episode.MoveLightPress, episode.MovePinToSpecifics:
		return episode.PostureLeanIn
	}
	if inevitabilityScore > 0.7 {
		return episode.PostureConfrontSoft
	}
	return episode.PostureLeanIn
}

func determineTone(move episode.HostMove, risk episode.RiskLevel) episode.Tone {
	if risk == episode.RiskElevated {
		return episode.ToneGentleCuriosity
	}
	if move == episode.MovePinToSpecifics || move == episode.MoveUtilitarianCheck {
		return episode.ToneSkepticalPrecision
	}
	return episode.ToneWarmAuthority
}

// #endregion posture-tone
