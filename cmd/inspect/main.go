package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/proveniq/origins/go-controlroom/internal/audit"
	"github.com/proveniq/origins/go-controlroom/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to episode_state.db")
	sessionID := flag.String("session", "", "session id (defaults to the only session, if one exists)")
	last := flag.Int("last", 20, "show N most recent versions")
	version := flag.String("version", "", "show single version detail")
	auditMode := flag.Bool("audit", false, "show the session's audit log instead of versions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/episode_state.db [--session id] [--last N] [--version id] [--audit] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *version != "":
		err = runDetailMode(st, *version, *jsonOut)
	case *auditMode:
		err = runAuditMode(st, *sessionID, *jsonOut)
	default:
		err = runListMode(st, *sessionID, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region session-resolve

// resolveSession returns the explicit session, or the store's only session.
func resolveSession(st *store.Store, sessionID string) (string, error) {
	if sessionID != "" {
		return sessionID, nil
	}
	sessions, err := st.Sessions()
	if err != nil {
		return "", err
	}
	switch len(sessions) {
	case 0:
		return "", fmt.Errorf("no sessions in store")
	case 1:
		return sessions[0], nil
	}
	return "", fmt.Errorf("multiple sessions in store, pass --session (have: %v)", sessions)
}

// #endregion session-resolve

// #region list-mode

type listRow struct {
	VersionID string `json:"version_id"`
	State     string `json:"state"`
	Act       int    `json:"act"`
	Turn      int    `json:"turn"`
	Patterns  int    `json:"patterns"`
	Echoes    int    `json:"echoes"`
	OpenLoops int    `json:"open_loops"`
	Incidents int    `json:"safety_incidents"`
	CreatedAt string `json:"created_at"`
}

func runListMode(st *store.Store, sessionID string, last int, jsonOut bool) error {
	sessionID, err := resolveSession(st, sessionID)
	if err != nil {
		return err
	}

	versions, err := st.Versions(sessionID, last)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintln(os.Stderr, "no versions found")
		return nil
	}

	// Store returns DESC, reverse for chronological
	rows := make([]listRow, len(versions))
	for i, v := range versions {
		openLoops := 0
		for _, l := range v.State.OpenLoops {
			if l.Status == "open" {
				openLoops++
			}
		}
		rows[len(versions)-1-i] = listRow{
			VersionID: v.VersionID,
			State:     string(v.Context.State),
			Act:       v.State.Metrics.CurrentAct,
			Turn:      v.State.Metrics.CurrentTurn,
			Patterns:  len(v.State.PatternSignals),
			Echoes:    len(v.State.EchoPhrases),
			OpenLoops: openLoops,
			Incidents: len(v.State.SafetyIncidents),
			CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("Session: %s\n\n", sessionID)
	fmt.Printf("%-12s  %-16s  %4s  %5s  %8s  %6s  %5s  %9s  %s\n",
		"Version", "State", "Act", "Turn", "Patterns", "Echoes", "Loops", "Incidents", "Time")
	for _, r := range rows {
		fmt.Printf("%-12s  %-16s  %4d  %5d  %8d  %6d  %5d  %9d  %s\n",
			shortID(r.VersionID), r.State, r.Act, r.Turn, r.Patterns, r.Echoes,
			r.OpenLoops, r.Incidents, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(st *store.Store, versionID string, jsonOut bool) error {
	snap, err := st.Version(versionID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(snap)
	}

	fmt.Printf("Version:   %s\n", snap.VersionID)
	fmt.Printf("Parent:    %s\n", snap.ParentID)
	fmt.Printf("Session:   %s\n", snap.SessionID)
	fmt.Printf("Created:   %s\n", snap.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Printf("State:     %s (act %d, turn %d)\n", snap.Context.State, snap.Context.Act, snap.Context.Turn)
	fmt.Printf("Followups: %d on %q\n", snap.Context.ConsecutiveFollowups, snap.Context.LastTopicID)

	if len(snap.State.PatternSignals) > 0 {
		fmt.Printf("\nPattern signals:\n")
		for _, p := range snap.State.PatternSignals {
			fmt.Printf("  %-32s conf=%.2f count=%d turns=%d-%d\n",
				p.Kind, p.Confidence, p.OccurrenceCount, p.FirstSeenTurn, p.LastSeenTurn)
		}
	}
	if len(snap.State.EchoPhrases) > 0 {
		fmt.Printf("\nEcho phrases:\n")
		for _, e := range snap.State.EchoPhrases {
			fmt.Printf("  %-24q %-14s eligible(act=%d turn=%d) used=%v\n",
				e.Phrase, e.Category, e.EligibleAfterAct, e.EligibleAfterTurn, e.Used)
		}
	}
	if len(snap.State.OpenLoops) > 0 {
		fmt.Printf("\nOpen loops:\n")
		for _, l := range snap.State.OpenLoops {
			fmt.Printf("  %-24s priority=%d status=%s\n", l.Topic, l.Priority, l.Status)
		}
	}
	if len(snap.State.SafetyIncidents) > 0 {
		fmt.Printf("\nSafety incidents:\n")
		for _, s := range snap.State.SafetyIncidents {
			fmt.Printf("  %s  %s\n", s.TurnID, s.Type)
		}
	}
	return nil
}

// #endregion detail-mode

// #region audit-mode

func runAuditMode(st *store.Store, sessionID string, jsonOut bool) error {
	sessionID, err := resolveSession(st, sessionID)
	if err != nil {
		return err
	}

	auditLog, err := audit.NewLogger(st.DB())
	if err != nil {
		return err
	}
	events, err := auditLog.BySession(sessionID, "")
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stderr, "no audit events found")
		return nil
	}

	if jsonOut {
		return printJSON(events)
	}

	fmt.Printf("Session: %s\n\n", sessionID)
	fmt.Printf("%-26s  %4s  %5s  %s\n", "Event", "Act", "Turn", "Time")
	for _, e := range events {
		fmt.Printf("%-26s  %4d  %5d  %s\n",
			e.Type, e.ActNumber, e.TurnNumber, e.Timestamp.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion audit-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
