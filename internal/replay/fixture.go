package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture. Episode
// types carry their own JSON tags, so the seed block reuses them directly.
type Fixture struct {
	Description string           `json:"description"`
	StartState  FixtureSeed      `json:"start_state"`
	Turns       []FixtureTurn    `json:"turns"`
	Expected    []ExpectedResult `json:"expected_results"`
}

// FixtureSeed is the serializable initial episode: identity plus whatever
// loops, claims, contradictions, and timeline events the scenario needs.
type FixtureSeed struct {
	SessionID      string                  `json:"session_id"`
	UserID         string                  `json:"user_id"`
	OpenLoops      []episode.OpenLoop      `json:"open_loops,omitempty"`
	Claims         []episode.Claim         `json:"claims,omitempty"`
	Contradictions []episode.Contradiction `json:"contradictions,omitempty"`
	Timeline       []episode.TimelineEvent `json:"timeline,omitempty"`
}

// FixtureTurn is one recorded user turn.
type FixtureTurn struct {
	TurnID  string `json:"turn_id"`
	Message string `json:"user_message"`
}

// ExpectedResult captures the expected move per turn.
type ExpectedResult struct {
	TurnID string           `json:"turn_id"`
	Move   episode.HostMove `json:"move"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToEpisode builds a fresh episode state from the seed.
func (s *FixtureSeed) ToEpisode() episode.EpisodeState {
	ep := episode.New(s.SessionID, s.UserID)
	ep.OpenLoops = s.OpenLoops
	ep.ClaimsLedger = s.Claims
	ep.ContradictionIndex = s.Contradictions
	ep.Timeline = s.Timeline
	return ep
}

// #endregion fixture-loader
