package sheet

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a minimal in-memory attendance table for dev/testing.
type MemoryStore struct {
	mu   sync.Mutex
	rows []Row
}

// NewMemoryStore creates an empty table.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AllRows returns a copy of every data row in order.
func (s *MemoryStore) AllRows(ctx context.Context) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Row returns a single row by its number.
func (s *MemoryStore) Row(ctx context.Context, num int) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Num == num {
			return r, nil
		}
	}
	return Row{}, ErrNotFound
}

// Append adds a row and returns its assigned number.
func (s *MemoryStore) Append(ctx context.Context, r Row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Num = HeaderRow + len(s.rows) + 1
	s.rows = append(s.rows, r)
	return r.Num, nil
}

// SetExit writes the exit timestamp on an existing row.
func (s *MemoryStore) SetExit(ctx context.Context, num int, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].Num == num {
			s.rows[i].ExitTime = t
			return nil
		}
	}
	return ErrNotFound
}
