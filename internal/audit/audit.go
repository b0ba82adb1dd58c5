package audit

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id           TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL,
	event_type   TEXT NOT NULL,
	turn_number  INTEGER NOT NULL,
	act_number   INTEGER NOT NULL,
	payload_json TEXT,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_session ON audit_log(session_id, created_at);
`

// #endregion schema

// #region logger

// Logger persists audit events in SQLite.
type Logger struct {
	db *sql.DB
}

// NewLogger creates the audit_log table if needed and returns a logger.
func NewLogger(db *sql.DB) (*Logger, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("audit schema: %w", err)
	}
	return &Logger{db: db}, nil
}

// #endregion logger

// #region log

// Log writes one event row.
func (l *Logger) Log(e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var payloadJSON interface{}
	if len(e.Payload) > 0 {
		data, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		payloadJSON = string(data)
	}

	_, err := l.db.Exec(
		`INSERT INTO audit_log (id, session_id, event_type, turn_number, act_number, payload_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, string(e.Type), e.TurnNumber, e.ActNumber, payloadJSON,
		e.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// LogAll writes a batch of events in order, stopping at the first failure.
func (l *Logger) LogAll(events []Event) error {
	for _, e := range events {
		if err := l.Log(e); err != nil {
			return err
		}
	}
	return nil
}

// #endregion log

// #region query

// BySession returns a session's events in insertion order, optionally
// filtered to one event type ("" = all).
func (l *Logger) BySession(sessionID string, eventType EventType) ([]Event, error) {
	query := `SELECT id, session_id, event_type, turn_number, act_number, payload_json, created_at
	          FROM audit_log WHERE session_id = ?`
	args := []interface{}{sessionID}
	if eventType != "" {
		query += ` AND event_type = ?`
		args = append(args, string(eventType))
	}
	query += ` ORDER BY created_at ASC, rowid ASC`

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var typ, createdStr string
		var payloadJSON sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &typ, &e.TurnNumber, &e.ActNumber, &payloadJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		e.Type = EventType(typ)
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, createdStr)
		if payloadJSON.Valid {
			if err := json.Unmarshal([]byte(payloadJSON.String), &e.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload for %s: %w", e.ID, err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return events, nil
}

// #endregion query
