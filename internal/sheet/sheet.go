// Package sheet models the attendance table: one row per student session,
// seven ordered columns, 1-based row numbers with row 1 reserved for the
// header. Rows are appended on entry and mutated exactly once on exit.
package sheet

import (
	"context"
	"errors"
	"time"
)

// Column positions in the attendance table, 1-based like sheet ranges.
const (
	ColEntryTime = 1
	ColStudentID = 2
	ColName      = 3
	ColMood      = 4
	ColSleep     = 5
	ColPurpose   = 6
	ColExitTime  = 7
)

// HeaderRow is the reserved first row; data rows start below it.
const HeaderRow = 1

// ErrNotFound is returned for reads of a row number that does not exist.
var ErrNotFound = errors.New("sheet: row not found")

// Row is one student session.
type Row struct {
	Num         int       `json:"num"` // sheet row number, data rows start at 2
	EntryTime   time.Time `json:"entry_time"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Mood        string    `json:"mood"`
	Sleep       string    `json:"sleep"`
	Purpose     string    `json:"purpose"`
	ExitTime    time.Time `json:"exit_time"` // zero while the session is open
}

// Open reports whether the session has no recorded exit yet.
func (r Row) Open() bool { return r.ExitTime.IsZero() }

// Store is the narrow surface the reconciliation logic needs from the
// attendance table.
type Store interface {
	// AllRows returns every data row ordered by row number ascending.
	AllRows(ctx context.Context) ([]Row, error)
	// Row returns a single data row by its sheet row number.
	Row(ctx context.Context, num int) (Row, error)
	// Append adds a new session row and returns its assigned row number.
	Append(ctx context.Context, row Row) (int, error)
	// SetExit writes the exit timestamp of an existing row. The column is
	// written at most once per session; callers resolve the target row first.
	SetExit(ctx context.Context, num int, t time.Time) error
}
