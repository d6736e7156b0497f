// Package roster looks up students and their guardians. Two separate sheets
// back it: the student-number/name list that QR badges are generated from,
// and the full roster that carries guardian contact details.
package roster

import "context"

// Guardian is the contact record used for one notification.
type Guardian struct {
	GuardianName        string
	Email               string
	NotificationSetting string
}

// Roster resolves students and guardians. Lookups that find nothing return
// empty values rather than errors; a missing student is a normal condition.
type Roster interface {
	// NameByID returns the display name for a student number, or "" when
	// the number is not registered.
	NameByID(ctx context.Context, studentID string) (string, error)
	// GuardianByName returns the guardian record for a student name, or
	// nil when the student is not on the roster.
	GuardianByName(ctx context.Context, studentName string) (*Guardian, error)
}
