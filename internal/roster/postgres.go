package roster

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRoster reads the student list and guardian roster from Postgres.
type PostgresRoster struct {
	db *sql.DB
}

// NewPostgresRoster creates a roster over an open connection.
func NewPostgresRoster(db *sql.DB) *PostgresRoster {
	return &PostgresRoster{db: db}
}

// NameByID returns the display name for a student number.
func (r *PostgresRoster) NameByID(ctx context.Context, studentID string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name FROM students WHERE student_id = $1
	`, studentID)
	var name string
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return name, nil
}

// GuardianByName returns the guardian record for a student name.
func (r *PostgresRoster) GuardianByName(ctx context.Context, studentName string) (*Guardian, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT guardian_name, email, notification_setting
		FROM guardians WHERE student_name = $1
	`, studentName)
	var g Guardian
	if err := row.Scan(&g.GuardianName, &g.Email, &g.NotificationSetting); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
