package replay

import (
	"fmt"

	"github.com/proveniq/origins/go-controlroom/internal/controlroom"
	"github.com/proveniq/origins/go-controlroom/internal/director"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
)

// #region types

// TurnResult captures the observable outcome of replaying one turn.
type TurnResult struct {
	TurnID        string
	Move          episode.HostMove
	Instruction   string
	Status        episode.FeedStatus
	Risk          episode.RiskLevel
	Inevitability float64
}

// Summary compares a replay run against the fixture's expectations.
type Summary struct {
	TotalTurns int
	Matches    int
	Mismatches []Mismatch
}

// Mismatch is one divergence between expected and actual.
type Mismatch struct {
	TurnID   string
	Expected episode.HostMove
	Actual   episode.HostMove
}

// Pass reports whether every expected turn matched.
func (s Summary) Pass() bool {
	return len(s.Mismatches) == 0
}

// #endregion types

// #region run

// Run replays recorded turns through the control room entirely in memory,
// threading state and context forward exactly as a live session would.
// Returns per-turn results plus the final state and context.
func Run(room *controlroom.Room, start episode.EpisodeState, ctx director.Context, turns []FixtureTurn) ([]TurnResult, episode.EpisodeState, director.Context, error) {
	ep := start
	results := make([]TurnResult, 0, len(turns))

	for _, t := range turns {
		res, err := room.ProcessTurn(controlroom.Turn{
			SessionID: ep.SessionID,
			TurnID:    t.TurnID,
			Message:   t.Message,
		}, ctx, ep)
		if err != nil {
			return nil, ep, ctx, fmt.Errorf("replay turn %s: %w", t.TurnID, err)
		}

		ep = res.State
		ctx = res.Context
		results = append(results, TurnResult{
			TurnID:        t.TurnID,
			Move:          res.Feed.Move,
			Instruction:   res.Feed.Instruction,
			Status:        res.Feed.Status,
			Risk:          res.Feed.Guardrails.RiskLevel,
			Inevitability: res.Feed.Inevitability.Score,
		})
	}

	return results, ep, ctx, nil
}

// Summarize compares results against expectations by turn id. Turns without
// an expectation are counted but never mismatched.
func Summarize(results []TurnResult, expected []ExpectedResult) Summary {
	want := make(map[string]episode.HostMove, len(expected))
	for _, e := range expected {
		want[e.TurnID] = e.Move
	}

	s := Summary{TotalTurns: len(results)}
	for _, r := range results {
		move, ok := want[r.TurnID]
		if !ok {
			continue
		}
		if move == r.Move {
			s.Matches++
		} else {
			s.Mismatches = append(s.Mismatches, Mismatch{
				TurnID:   r.TurnID,
				Expected: move,
				Actual:   r.Move,
			})
		}
	}
	return s
}

// #endregion run
