package sheet

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresStore persists the attendance table in Postgres. Row numbers are
// allocated on append so the table keeps the sheet's ordering contract.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// AllRows returns every data row ordered by row number.
func (s *PostgresStore) AllRows(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_num, entry_time, student_id, student_name, mood, sleep, purpose, exit_time
		FROM attendance_rows
		ORDER BY row_num
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// Row returns a single row by its number.
func (s *PostgresStore) Row(ctx context.Context, num int) (Row, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT row_num, entry_time, student_id, student_name, mood, sleep, purpose, exit_time
		FROM attendance_rows WHERE row_num = $1
	`, num)
	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, ErrNotFound
	}
	return r, err
}

// Append inserts a new session row. Row numbers continue below the header;
// the action endpoint serializes appends behind its lock.
func (s *PostgresStore) Append(ctx context.Context, r Row) (int, error) {
	var exit any
	if !r.ExitTime.IsZero() {
		exit = r.ExitTime
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO attendance_rows (row_num, entry_time, student_id, student_name, mood, sleep, purpose, exit_time)
		SELECT COALESCE(MAX(row_num), $8) + 1, $1, $2, $3, $4, $5, $6, $7 FROM attendance_rows
		RETURNING row_num
	`, r.EntryTime, r.StudentID, r.StudentName, r.Mood, r.Sleep, r.Purpose, exit, HeaderRow)
	var num int
	if err := row.Scan(&num); err != nil {
		return 0, err
	}
	return num, nil
}

// SetExit writes the exit timestamp on an existing row.
func (s *PostgresStore) SetExit(ctx context.Context, num int, t time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE attendance_rows SET exit_time = $2 WHERE row_num = $1
	`, num, t)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (Row, error) {
	var r Row
	var exit sql.NullTime
	if err := sc.Scan(&r.Num, &r.EntryTime, &r.StudentID, &r.StudentName, &r.Mood, &r.Sleep, &r.Purpose, &exit); err != nil {
		return Row{}, err
	}
	if exit.Valid {
		r.ExitTime = exit.Time
	}
	return r, nil
}
