package notify

import (
	"context"
	"database/sql"
	"sync"
)

// PostgresLog persists notification log rows in Postgres. The unique-key
// check is a point query over an indexed column; semantically the same as
// scanning the whole log for an exact match.
type PostgresLog struct {
	db *sql.DB
}

// NewPostgresLog creates a log repo over an open connection.
func NewPostgresLog(db *sql.DB) *PostgresLog {
	return &PostgresLog{db: db}
}

// Contains reports whether a log row with this unique key already exists.
func (l *PostgresLog) Contains(ctx context.Context, uniqueKey string) (bool, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM notification_log WHERE unique_key = $1)
	`, uniqueKey)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Append adds one log row.
func (l *PostgresLog) Append(ctx context.Context, e LogEntry) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO notification_log (sent_at, student_id, student_name, email, status, result, unique_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.SentAt, e.StudentID, e.StudentName, e.Email, e.Status, e.Result, e.UniqueKey)
	return err
}

// MemoryLog keeps log rows in memory; dedup is a full scan, as on the sheet.
type MemoryLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMemoryLog creates an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Contains scans all rows for an exact unique-key match.
func (l *MemoryLog) Contains(ctx context.Context, uniqueKey string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.UniqueKey == uniqueKey {
			return true, nil
		}
	}
	return false, nil
}

// Append adds one log row.
func (l *MemoryLog) Append(ctx context.Context, e LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return nil
}

// Entries returns a copy of all rows, for tests and the admin surface.
func (l *MemoryLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
