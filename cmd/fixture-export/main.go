package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/proveniq/origins/go-controlroom/internal/audit"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
	"github.com/proveniq/origins/go-controlroom/internal/replay"
	"github.com/proveniq/origins/go-controlroom/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to episode_state.db")
	sessionID := flag.String("session", "default", "session id to export")
	last := flag.Int("last", 0, "export only the N most recent turns (0 = all)")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--session id] [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *sessionID, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(dbPath, sessionID string, last int, outPath string) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	auditLog, err := audit.NewLogger(st.DB())
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}

	initial, err := st.Initial(sessionID)
	if err != nil {
		return fmt.Errorf("find initial episode: %w", err)
	}

	received, err := auditLog.BySession(sessionID, audit.EventTurnReceived)
	if err != nil {
		return fmt.Errorf("query turns: %w", err)
	}
	selected, err := auditLog.BySession(sessionID, audit.EventMoveSelected)
	if err != nil {
		return fmt.Errorf("query moves: %w", err)
	}
	if len(received) == 0 {
		return fmt.Errorf("no turn_received entries for session %s", sessionID)
	}

	sort.SliceStable(received, func(i, j int) bool {
		return received[i].TurnNumber < received[j].TurnNumber
	})
	if last > 0 && len(received) > last {
		received = received[len(received)-last:]
	}

	moveByTurn := make(map[int]string, len(selected))
	for _, e := range selected {
		if m, ok := e.Payload["move"].(string); ok {
			moveByTurn[e.TurnNumber] = m
		}
	}

	fixture := buildFixture(initial, received, moveByTurn)
	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region output

func buildFixture(initial store.Snapshot, received []audit.Event, moveByTurn map[int]string) replay.Fixture {
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

	return replay.Fixture{
		Description: fmt.Sprintf("Session export: %d turns from %s", len(turns), initial.SessionID),
		StartState: replay.FixtureSeed{
			SessionID:      initial.SessionID,
			UserID:         initial.State.UserID,
			OpenLoops:      initial.State.OpenLoops,
			Claims:         initial.State.ClaimsLedger,
			Contradictions: initial.State.ContradictionIndex,
			Timeline:       initial.State.Timeline,
		},
		Turns:    turns,
		Expected: expected,
	}
}

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d turns)\n", outPath, len(data), len(fixture.Turns))
	return nil
}

// #endregion output
