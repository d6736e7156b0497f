// Package notify delivers guardian notifications for attendance events and
// keeps the append-only notification log that doubles as the durable dedup
// record.
package notify

import (
	"context"
	"time"
)

// Event status values as they appear in mail bodies and the log.
const (
	StatusEntry = "入室"
	StatusExit  = "退出"
)

// Log row result values.
const (
	ResultOK    = "OK"
	ResultError = "ERROR"
)

// LogEntry is one row of the notification log: the 7 ordered columns of the
// log sheet.
type LogEntry struct {
	SentAt      time.Time
	StudentID   string
	StudentName string
	Email       string
	Status      string
	Result      string
	UniqueKey   string
}

// LogRepo is the persistence surface for the notification log. Contains is
// the authoritative dedup check before any send.
type LogRepo interface {
	Contains(ctx context.Context, uniqueKey string) (bool, error)
	Append(ctx context.Context, e LogEntry) error
}

// enabledValues is the allow-list of opt-in settings recognized as
// affirmative. Matching is exact; no boolean coercion.
var enabledValues = []string{"希望する", "Y", "TRUE", "true", "1"}

// Enabled reports whether a roster notification setting opts the guardian in.
func Enabled(setting string) bool {
	for _, v := range enabledValues {
		if setting == v {
			return true
		}
	}
	return false
}
