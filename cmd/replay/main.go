package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/proveniq/origins/go-controlroom/internal/audit"
	"github.com/proveniq/origins/go-controlroom/internal/controlroom"
	"github.com/proveniq/origins/go-controlroom/internal/director"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
	"github.com/proveniq/origins/go-controlroom/internal/replay"
	"github.com/proveniq/origins/go-controlroom/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to episode_state.db (DB mode)")
	sessionID := flag.String("session", "default", "session id (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/episode_state.db [--session id]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *sessionID)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	room, err := controlroom.New(controlroom.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "wire control room: %v\n", err)
		return 2
	}

	start := f.StartState.ToEpisode()
	results, _, _, err := replay.Run(room, start, director.NewContext(), f.Turns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	return printComparison(results, f.Expected)
}

// #endregion fixture-mode

// #region db-mode

// runDBMode reconstructs a session's turns from the audit log and replays
// them from the initial snapshot, comparing against the recorded moves.
func runDBMode(dbPath, sessionID string) int {
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()

	auditLog, err := audit.NewLogger(st.DB())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open audit log: %v\n", err)
		return 2
	}

	initial, err := st.Initial(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "find initial episode: %v\n", err)
		return 2
	}

	turns, expected, err := extractTurns(auditLog, sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract turns: %v\n", err)
		return 2
	}
	if len(turns) == 0 {
		fmt.Fprintln(os.Stderr, "no turn_received entries found in audit_log")
		return 2
	}

	room, err := controlroom.New(controlroom.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "wire control room: %v\n", err)
		return 2
	}

	results, _, _, err := replay.Run(room, initial.State, initial.Context, turns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	return printComparison(results, expected)
}

// extractTurns rebuilds the turn sequence and the recorded moves from
// turn_received and move_selected events.
func extractTurns(auditLog *audit.Logger, sessionID string) ([]replay.FixtureTurn, []replay.ExpectedResult, error) {
	received, err := auditLog.BySession(sessionID, audit.EventTurnReceived)
	if err != nil {
		return nil, nil, err
	}
	selected, err := auditLog.BySession(sessionID, audit.EventMoveSelected)
	if err != nil {
		return nil, nil, err
	}

	sort.SliceStable(received, func(i, j int) bool {
		return received[i].TurnNumber < received[j].TurnNumber
	})

	moveByTurn := make(map[int]string, len(selected))
	for _, e := range selected {
		if m, ok := e.Payload["move"].(string); ok {
			moveByTurn[e.TurnNumber] = m
		}
	}

	var turns []replay.FixtureTurn
	var expected []replay.ExpectedResult
	for _, e := range received {
		turnID, _ := e.Payload["turn_id"].(string)
		message, _ := e.Payload["message"].(string)
		if turnID == "" {
			continue
		}
		turns = append(turns, replay.FixtureTurn{TurnID: turnID, Message: message})
		if m, ok := moveByTurn[e.TurnNumber]; ok {
			expected = append(expected, replay.ExpectedResult{TurnID: turnID, Move: episode.HostMove(m)})
		}
	}
	return turns, expected, nil
}

// #endregion db-mode

// #region output

// printComparison outputs a per-turn comparison table and returns the exit
// code: 0 on full match, 1 on divergence.
func printComparison(results []replay.TurnResult, expected []replay.ExpectedResult) int {
	want := make(map[string]episode.HostMove, len(expected))
	for _, e := range expected {
		want[e.TurnID] = e.Move
	}

	fmt.Printf("%-12s| %-22s| %-22s| %s\n", "Turn", "Expected", "Replayed", "Match")
	fmt.Printf("%-12s+%-23s+%-23s+%s\n",
		"------------", "-----------------------", "-----------------------", "------")

	matches, compared := 0, 0
	for _, r := range results {
		exp, ok := want[r.TurnID]
		expStr := "-"
		match := "-"
		if ok {
			compared++
			expStr = string(exp)
			if exp == r.Move {
				match = "OK"
				matches++
			} else {
				match = "DIFF"
			}
		}
		fmt.Printf("%-12s| %-22s| %-22s| %s\n", r.TurnID, expStr, r.Move, match)
	}

	diverge := compared - matches
	fmt.Printf("\nSummary: %d turns, %d compared, %d match, %d diverge\n",
		len(results), compared, matches, diverge)

	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion output
