package journal

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id    TEXT PRIMARY KEY,
	dataset       TEXT,
	width         INTEGER NOT NULL,
	height        INTEGER NOT NULL,
	learning_rate REAL NOT NULL,
	agree_policy  TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	idx         INTEGER NOT NULL,
	label       TEXT,
	top_label   TEXT,
	decision    TEXT,
	query       BLOB NOT NULL,
	created_at  TEXT NOT NULL,
	UNIQUE (session_id, seq),
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);
`
// #endregion schema

// #region store-struct
// Store is an append-only SQLite journal of sessions and their events.
// It implements session.Recorder once bound to a session via StartSession.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion constructor

// #region start-session
// StartSession inserts the session row. Events for the session may be recorded
// only after this.
func (s *Store) StartSession(rec SessionRecord) error {
	if rec.SessionID == "" {
		return fmt.Errorf("start session: empty session id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (session_id, dataset, width, height, learning_rate, agree_policy, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, nullIfEmpty(rec.Dataset), rec.Width, rec.Height, rec.LearningRate,
		rec.AgreePolicy, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
// #endregion start-session

// #region record
// Record appends one event. It satisfies session.Recorder.
func (s *Store) Record(ev session.Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO events (id, session_id, seq, kind, idx, label, top_label, decision, query, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), ev.SessionID, ev.Seq, string(ev.Kind), ev.Index,
		runeOrNull(ev.Label), runeOrNull(ev.TopLabel), nullIfEmpty(ev.Decision),
		encodeVector(ev.Query), ev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
// #endregion record

// #region get-session
// GetSession reads one session row.
func (s *Store) GetSession(id string) (SessionRecord, error) {
	var rec SessionRecord
	var dataset sql.NullString
	var createdStr string
	err := s.db.QueryRow(
		`SELECT session_id, dataset, width, height, learning_rate, agree_policy, created_at
		 FROM sessions WHERE session_id = ?`, id,
	).Scan(&rec.SessionID, &dataset, &rec.Width, &rec.Height, &rec.LearningRate, &rec.AgreePolicy, &createdStr)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("get session %s: %w", id, err)
	}
	if dataset.Valid {
		rec.Dataset = dataset.String
	}
	if rec.CreatedAt, err = parseTime(createdStr); err != nil {
		return SessionRecord{}, fmt.Errorf("session %s: %w", id, err)
	}
	return rec, nil
}
// #endregion get-session

// #region list-sessions
// ListSessions returns the most recent sessions with event counts.
func (s *Store) ListSessions(limit int) ([]SessionSummary, error) {
	rows, err := s.db.Query(
		`SELECT s.session_id, s.dataset, s.width, s.height, s.learning_rate, s.agree_policy, s.created_at,
		        COUNT(e.id),
		        COALESCE(SUM(CASE WHEN e.kind = 'correct' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN e.decision = 'commit' THEN 1 ELSE 0 END), 0)
		 FROM sessions s LEFT JOIN events e ON e.session_id = s.session_id
		 GROUP BY s.session_id
		 ORDER BY s.created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var dataset sql.NullString
		var createdStr string
		if err := rows.Scan(&sum.SessionID, &dataset, &sum.Width, &sum.Height, &sum.LearningRate,
			&sum.AgreePolicy, &createdStr, &sum.Events, &sum.Corrections, &sum.Commits); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if dataset.Valid {
			sum.Dataset = dataset.String
		}
		if sum.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("session %s: %w", sum.SessionID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
// #endregion list-sessions

// #region events
// Events returns a session's events in sequence order.
func (s *Store) Events(sessionID string) ([]session.Event, error) {
	rows, err := s.db.Query(
		`SELECT seq, kind, idx, label, top_label, decision, query, created_at
		 FROM events WHERE session_id = ? ORDER BY seq ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []session.Event
	for rows.Next() {
		ev := session.Event{SessionID: sessionID}
		var kind string
		var label, top, decision sql.NullString
		var blob []byte
		var createdStr string
		if err := rows.Scan(&ev.Seq, &kind, &ev.Index, &label, &top, &decision, &blob, &createdStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = session.EventKind(kind)
		ev.Label = firstRune(label)
		ev.TopLabel = firstRune(top)
		if decision.Valid {
			ev.Decision = decision.String
		}
		ev.Query = decodeVector(blob)
		if ev.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.Seq, err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
// #endregion events

// #region vector-encoding
func encodeVector(v pattern.Vector) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(b []byte) pattern.Vector {
	v := pattern.New(len(b) / 8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v
}
// #endregion vector-encoding

// #region helpers
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func runeOrNull(r rune) interface{} {
	if r == 0 {
		return nil
	}
	return string(r)
}

func firstRune(s sql.NullString) rune {
	if !s.Valid || s.String == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.String)
	return r
}
// #endregion helpers
