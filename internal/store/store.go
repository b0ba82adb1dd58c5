package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/proveniq/origins/go-controlroom/internal/director"
	"github.com/proveniq/origins/go-controlroom/internal/episode"
	_ "modernc.org/sqlite"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS episode_versions (
	version_id    TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL,
	parent_id     TEXT,
	snapshot_json TEXT NOT NULL,
	context_json  TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES episode_versions(version_id)
);
CREATE INDEX IF NOT EXISTS idx_versions_session ON episode_versions(session_id, created_at);

CREATE TABLE IF NOT EXISTS active_episode (
	session_id    TEXT PRIMARY KEY,
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES episode_versions(version_id)
);
`

// #endregion schema

// #region types

// Snapshot is one persisted version of a session's episode state plus its
// director context.
type Snapshot struct {
	VersionID string
	SessionID string
	ParentID  string
	State     episode.EpisodeState
	Context   director.Context
	CreatedAt time.Time
}

// #endregion types

// #region store

// Store manages versioned episode snapshots in SQLite. Each session owns an
// independent version chain and an active pointer; serializing turns within
// a session is the caller's contract.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. audit).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region commit

// Commit inserts a new version for the session and moves its active pointer
// atomically. parentID may be empty for the initial version. Returns the new
// version id.
func (s *Store) Commit(ep episode.EpisodeState, ctx director.Context, parentID string) (string, error) {
	if err := ep.Validate(); err != nil {
		return "", fmt.Errorf("commit rejected: %w", err)
	}

	snapJSON, err := json.Marshal(ep)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	ctxJSON, err := json.Marshal(ctx)
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parent interface{}
	if parentID != "" {
		parent = parentID
	}

	_, err = tx.Exec(
		`INSERT INTO episode_versions (version_id, session_id, parent_id, snapshot_json, context_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, ep.SessionID, parent, string(snapJSON), string(ctxJSON), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_episode (session_id, version_id) VALUES (?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET version_id = excluded.version_id`,
		ep.SessionID, id,
	)
	if err != nil {
		return "", fmt.Errorf("set active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

// #endregion commit

// #region current

// Current reads the active snapshot for a session. Returns sql.ErrNoRows
// (wrapped) when the session has no versions yet.
func (s *Store) Current(sessionID string) (Snapshot, error) {
	var versionID string
	err := s.db.QueryRow(
		`SELECT version_id FROM active_episode WHERE session_id = ?`, sessionID,
	).Scan(&versionID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get active for %s: %w", sessionID, err)
	}
	return s.Version(versionID)
}

// #endregion current

// #region version

// Version retrieves a specific snapshot by version id.
func (s *Store) Version(versionID string) (Snapshot, error) {
	var snap Snapshot
	var parentID sql.NullString
	var snapJSON, ctxJSON, createdStr string

	err := s.db.QueryRow(
		`SELECT version_id, session_id, parent_id, snapshot_json, context_json, created_at
		 FROM episode_versions WHERE version_id = ?`, versionID,
	).Scan(&snap.VersionID, &snap.SessionID, &parentID, &snapJSON, &ctxJSON, &createdStr)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get version %s: %w", versionID, err)
	}

	if parentID.Valid {
		snap.ParentID = parentID.String
	}
	if err := json.Unmarshal([]byte(snapJSON), &snap.State); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot %s: %w", versionID, err)
	}
	if err := json.Unmarshal([]byte(ctxJSON), &snap.Context); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal context %s: %w", versionID, err)
	}
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)

	return snap, nil
}

// #endregion version

// #region list

// Initial returns the session's root version (the one with no parent).
func (s *Store) Initial(sessionID string) (Snapshot, error) {
	var versionID string
	err := s.db.QueryRow(
		`SELECT version_id FROM episode_versions
		 WHERE session_id = ? AND parent_id IS NULL
		 ORDER BY created_at ASC LIMIT 1`, sessionID,
	).Scan(&versionID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("find initial for %s: %w", sessionID, err)
	}
	return s.Version(versionID)
}

// Versions lists the session's most recent snapshots, newest first.
func (s *Store) Versions(sessionID string, limit int) ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT version_id FROM episode_versions
		 WHERE session_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan version id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	snaps := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Version(id)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Sessions lists the distinct session ids in the store.
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT session_id FROM episode_versions ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// #endregion list
