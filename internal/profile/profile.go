// Package profile loads control-room policy profiles from YAML. A profile
// tunes the numeric and lexical policy surface (caps, thresholds, banned
// phrases, detection vocab); the transition and move tables stay in code.
package profile

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/proveniq/origins/go-controlroom/internal/controlroom"
	"github.com/proveniq/origins/go-controlroom/internal/echo"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
	"github.com/proveniq/origins/go-controlroom/internal/safety"
)

// #endregion

// #region dto

// Profile mirrors the YAML document.
type Profile struct {
	Name     string      `yaml:"name"`
	Pressure PressureDTO `yaml:"pressure"`
	Patterns PatternsDTO `yaml:"patterns"`
	Echo     EchoDTO     `yaml:"echo"`
	Reveal   RevealDTO   `yaml:"reveal"`
	SP       SPDTO       `yaml:"standards_and_practices"`
	Safety   SafetyDTO   `yaml:"safety"`
	Tapes    TapesDTO    `yaml:"missing_tapes"`
}

type PressureDTO struct {
	MaxFollowupsOnTopic    int `yaml:"max_followups_on_topic"`
	RecursionLimit         int `yaml:"recursion_limit"`
	MinTurnsBetweenReveals int `yaml:"min_turns_between_reveals"`
	MaxPatternsPerAct      int `yaml:"max_patterns_per_act"`
}

type PatternsDTO struct {
	MergeAveragingBias float64           `yaml:"merge_averaging_bias"`
	ConfidenceCap      float64           `yaml:"confidence_cap"`
	DisclosureMinObs   int               `yaml:"disclosure_min_observations"`
	DisclosureMinSpan  int               `yaml:"disclosure_min_turn_span"`
	CostHints          map[string]string `yaml:"cost_hints"`
}

type EchoDTO struct {
	DelayActs  int `yaml:"delay_acts"`
	DelayTurns int `yaml:"delay_turns"`
}

type RevealDTO struct {
	ThresholdReveal       float64 `yaml:"threshold_reveal"`
	ThresholdConfrontSoft float64 `yaml:"threshold_confront_soft"`
	ThresholdConfrontFirm float64 `yaml:"threshold_confront_firm"`
}

type SPDTO struct {
	BannedPhrases    []string `yaml:"banned_phrases"`
	MinInevitability float64  `yaml:"min_inevitability"`
}

type SafetyDTO struct {
	CrisisPatterns []CrisisPatternDTO `yaml:"crisis_patterns"`
}

type CrisisPatternDTO struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
}

type TapesDTO struct {
	GapThresholdDays int `yaml:"gap_threshold_days"`
}

// #endregion dto

// #region load

// Load reads and converts a YAML profile into a control-room config,
// starting from defaults and overriding only what the document sets.
func Load(path string) (controlroom.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return controlroom.Config{}, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return controlroom.Config{}, fmt.Errorf("parse profile: %w", err)
	}
	return p.ToConfig()
}

// ToConfig converts the DTO onto a default config. Zero values in the
// document leave the corresponding default in place.
func (p Profile) ToConfig() (controlroom.Config, error) {
	cfg := controlroom.DefaultConfig()

	if p.Pressure.MaxFollowupsOnTopic > 0 {
		cfg.Director.Caps.MaxFollowupsOnTopic = p.Pressure.MaxFollowupsOnTopic
		cfg.Governor.MaxFollowupsOnTopic = p.Pressure.MaxFollowupsOnTopic
	}
	if p.Pressure.RecursionLimit > 0 {
		cfg.Director.Caps.RecursionLimit = p.Pressure.RecursionLimit
	}
	if p.Pressure.MinTurnsBetweenReveals > 0 {
		cfg.Director.Caps.MinTurnsBetweenReveals = p.Pressure.MinTurnsBetweenReveals
	}
	if p.Pressure.MaxPatternsPerAct > 0 {
		cfg.Director.Caps.MaxPatternsPerAct = p.Pressure.MaxPatternsPerAct
	}

	if p.Patterns.MergeAveragingBias > 0 {
		cfg.Pattern.Merge.AveragingBias = p.Patterns.MergeAveragingBias
	}
	if p.Patterns.ConfidenceCap > 0 {
		cfg.Pattern.Merge.ConfidenceCap = p.Patterns.ConfidenceCap
	}
	if p.Patterns.DisclosureMinObs > 0 {
		cfg.Director.Disclosure.MinObservations = p.Patterns.DisclosureMinObs
	}
	if p.Patterns.DisclosureMinSpan > 0 {
		cfg.Director.Disclosure.MinTurnSpan = p.Patterns.DisclosureMinSpan
	}
	for kind, hint := range p.Patterns.CostHints {
		k, err := parsePatternKind(kind)
		if err != nil {
			return controlroom.Config{}, err
		}
		cfg.Pattern.CostHints[k] = hint
	}

	if p.Echo.DelayActs > 0 || p.Echo.DelayTurns > 0 {
		cfg.EchoDelay = echo.Delay{Acts: p.Echo.DelayActs, Turns: p.Echo.DelayTurns}
	}

	if p.Reveal.ThresholdReveal > 0 {
		cfg.Thresholds.Reveal = p.Reveal.ThresholdReveal
	}
	if p.Reveal.ThresholdConfrontSoft > 0 {
		cfg.Thresholds.ConfrontSoft = p.Reveal.ThresholdConfrontSoft
	}
	if p.Reveal.ThresholdConfrontFirm > 0 {
		cfg.Thresholds.ConfrontFirm = p.Reveal.ThresholdConfrontFirm
	}

	if len(p.SP.BannedPhrases) > 0 {
		cfg.Governor.BannedPhrases = p.SP.BannedPhrases
	}
	if p.SP.MinInevitability > 0 {
		cfg.Governor.MinInevitability = p.SP.MinInevitability
	}

	if len(p.Safety.CrisisPatterns) > 0 {
		patterns := make([]safety.CrisisPattern, 0, len(p.Safety.CrisisPatterns))
		for _, cp := range p.Safety.CrisisPatterns {
			typ, err := parseSignalType(cp.Type)
			if err != nil {
				return controlroom.Config{}, err
			}
			patterns = append(patterns, safety.CrisisPattern{Pattern: cp.Pattern, Type: typ})
		}
		cfg.SafetyPatterns = patterns
	}

	if p.Tapes.GapThresholdDays > 0 {
		cfg.GapThresholdDays = p.Tapes.GapThresholdDays
	}

	return cfg, nil
}

func parseSignalType(s string) (safety.SignalType, error) {
	switch t := safety.SignalType(s); t {
	case safety.SignalSelfHarm, safety.SignalHarmToOthers, safety.SignalChildExploitation, safety.SignalAcuteCrisis:
		return t, nil
	}
	return "", fmt.Errorf("unknown crisis signal type %q", s)
}

func parsePatternKind(s string) (episode.PatternKind, error) {
	for _, k := range episode.AllPatternKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown pattern kind %q", s)
}

// #endregion load
