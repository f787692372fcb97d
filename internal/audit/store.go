package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry describes one dispatched operation.
type Entry struct {
	ID            int64
	At            time.Time
	Transport     string
	Operation     string
	UID           uint32
	CorrelationID string
	Outcome       string
}

// Outcome values recorded per dispatch.
const (
	OutcomeOK       = "ok"
	OutcomeDeclined = "declined"
	OutcomeFailed   = "failed"
	OutcomeTimeout  = "timeout"
)

// Transport values recorded per dispatch.
const (
	TransportSocket = "socket"
	TransportBus    = "bus"
)

// Log manages audit persistence backed by SQLite. A nil *Log is a valid
// no-op sink so wiring can stay unconditional.
type Log struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the audit database and applies the schema.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	const schema = `
CREATE TABLE IF NOT EXISTS audit (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    at             TEXT    NOT NULL,
    transport      TEXT    NOT NULL,
    operation      TEXT    NOT NULL,
    uid            INTEGER NOT NULL,
    correlation_id TEXT    NOT NULL DEFAULT '',
    outcome        TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_at ON audit(at);
`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply audit schema: %w", err)
	}

	return &Log{db: db, path: path}, nil
}

// Path returns the database file location.
func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record inserts one audit entry. Safe for concurrent use.
func (l *Log) Record(ctx context.Context, entry Entry) error {
	if l == nil {
		return nil
	}
	at := entry.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit (at, transport, operation, uid, correlation_id, outcome) VALUES (?, ?, ?, ?, ?, ?)`,
		at.UTC().Format(time.RFC3339Nano), entry.Transport, entry.Operation, entry.UID, entry.CorrelationID, entry.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if l == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, at, transport, operation, uid, correlation_id, outcome FROM audit ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry Entry
			at    string
		)
		if err := rows.Scan(&entry.ID, &at, &entry.Transport, &entry.Operation, &entry.UID, &entry.CorrelationID, &entry.Outcome); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			entry.At = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
