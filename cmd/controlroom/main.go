package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/proveniq/origins/go-controlroom/internal/audit"
	"github.com/proveniq/origins/go-controlroom/internal/controlroom"
	"github.com/proveniq/origins/go-controlroom/internal/director"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
	"github.com/proveniq/origins/go-controlroom/internal/profile"
	"github.com/proveniq/origins/go-controlroom/internal/store"
)

// #region main
func main() {
	sessionID := flag.String("session", "default", "session id")
	userID := flag.String("user", "anonymous", "user id")
	profilePath := flag.String("profile", "", "optional YAML policy profile")
	flag.Parse()

	dbPath := envOr("EPISODE_DB", "episode_state.db")

	cfg := controlroom.DefaultConfig()
	if *profilePath != "" {
		var err error
		cfg, err = profile.Load(*profilePath)
		if err != nil {
			log.Fatalf("failed to load profile: %v", err)
		}
	}

	room, err := controlroom.New(cfg)
	if err != nil {
		log.Fatalf("failed to wire control room: %v", err)
	}

	st, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	auditLog, err := audit.NewLogger(st.DB())
	if err != nil {
		log.Fatalf("failed to init audit log: %v", err)
	}

	// Load or create the session
	snap, err := st.Current(*sessionID)
	if err != nil {
		log.Println("No active episode found, creating initial state...")
		ep := episode.New(*sessionID, *userID)
		ctx := director.NewContext()
		versionID, err := st.Commit(ep, ctx, "")
		if err != nil {
			log.Fatalf("failed to create initial episode: %v", err)
		}
		if err := auditLog.Log(audit.NewEvent(*sessionID, audit.EventSessionStart, 0, 1, map[string]any{
			"user_id":    *userID,
			"version_id": versionID,
		})); err != nil {
			log.Printf("logging error: %v", err)
		}
		snap, err = st.Current(*sessionID)
		if err != nil {
			log.Fatalf("failed to reload episode: %v", err)
		}
	}

	ep := snap.State
	dctx := snap.Context
	parentID := snap.VersionID

	fmt.Println("Control Room ready.")
	fmt.Printf("  DB: %s | Session: %s | State: %s | Act: %d | Turn: %d\n",
		dbPath, *sessionID, dctx.State, ep.Metrics.CurrentAct, ep.Metrics.CurrentTurn)
	fmt.Println("Type a message ('/ready', '/break', '/wrap', '/feed', or 'quit'):")

	scanner := bufio.NewScanner(os.Stdin)
	var lastFeed *episode.EarpieceFeed

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if strings.HasPrefix(line, "/") {
			ep, dctx, parentID = handleCommand(line, room, st, auditLog, ep, dctx, parentID, lastFeed)
			continue
		}

		turnID := fmt.Sprintf("turn-%d", ep.Metrics.CurrentTurn+1)
		res, err := room.ProcessTurn(controlroom.Turn{
			SessionID: ep.SessionID,
			TurnID:    turnID,
			Message:   line,
		}, dctx, ep)
		if err != nil {
			log.Printf("turn error: %v", err)
			continue
		}

		ep = res.State
		dctx = res.Context
		lastFeed = &res.Feed

		fmt.Printf("\n%s\n\n", res.Feed.Instruction)
		fmt.Printf("[%s] move=%s posture=%s tone=%s risk=%s inevitability=%.2f\n",
			turnID, res.Feed.Move, res.Feed.Posture, res.Feed.Tone,
			res.Feed.Guardrails.RiskLevel, res.Feed.Inevitability.Score)

		versionID, err := st.Commit(ep, dctx, parentID)
		if err != nil {
			log.Printf("commit error: %v", err)
			continue
		}
		parentID = versionID

		if err := auditLog.LogAll(res.Events); err != nil {
			log.Printf("logging error: %v", err)
		}

		// Warming up in the green room counts toward engagement
		if dctx.State == director.StateGreenRoom {
			if next, ok := room.Director().Transition(dctx, director.TriggerUserEngaged, &ep); ok {
				fmt.Printf("[director] %s -> %s\n", dctx.State, next.State)
				dctx = next
			}
		}
	}
}

// #endregion main

// #region commands

// handleCommand runs a slash command against the current session, returning
// the possibly-updated state, context, and parent version.
func handleCommand(
	line string,
	room *controlroom.Room,
	st *store.Store,
	auditLog *audit.Logger,
	ep episode.EpisodeState,
	dctx director.Context,
	parentID string,
	lastFeed *episode.EarpieceFeed,
) (episode.EpisodeState, director.Context, string) {
	var trigger director.Trigger
	var eventType audit.EventType

	switch line {
	case "/feed":
		if lastFeed == nil {
			fmt.Println("no feed yet")
			return ep, dctx, parentID
		}
		data, _ := json.MarshalIndent(lastFeed, "", "  ")
		fmt.Println(string(data))
		return ep, dctx, parentID
	case "/ready":
		trigger, eventType = director.TriggerUserReady, audit.EventActTransition
	case "/break":
		trigger, eventType = director.TriggerActComplete, audit.EventCommercialBreak
	case "/wrap":
		trigger, eventType = director.TriggerEpisodeComplete, audit.EventSessionEnd
	default:
		fmt.Printf("unknown command %q\n", line)
		return ep, dctx, parentID
	}

	next, ok := room.Director().Transition(dctx, trigger, &ep)
	if !ok {
		fmt.Printf("[director] no transition for %s in %s\n", trigger, dctx.State)
		return ep, dctx, parentID
	}
	fmt.Printf("[director] %s -> %s (act %d)\n", dctx.State, next.State, next.Act)
	dctx = next
	ep.Metrics.CurrentAct = dctx.Act

	versionID, err := st.Commit(ep, dctx, parentID)
	if err != nil {
		log.Printf("commit error: %v", err)
		return ep, dctx, parentID
	}
	parentID = versionID

	err = auditLog.Log(audit.NewEvent(ep.SessionID, eventType, ep.Metrics.CurrentTurn, dctx.Act, map[string]any{
		"trigger": string(trigger),
		"state":   string(dctx.State),
	}))
	if err != nil {
		log.Printf("logging error: %v", err)
	}
	return ep, dctx, parentID
}

// #endregion commands

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
