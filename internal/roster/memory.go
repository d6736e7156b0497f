package roster

import (
	"context"
	"sync"
)

// MemoryRoster is an in-memory roster for dev/testing.
type MemoryRoster struct {
	mu        sync.Mutex
	names     map[string]string   // student id -> name
	guardians map[string]Guardian // student name -> guardian
}

// NewMemoryRoster creates an empty roster.
func NewMemoryRoster() *MemoryRoster {
	return &MemoryRoster{
		names:     make(map[string]string),
		guardians: make(map[string]Guardian),
	}
}

// AddStudent registers a student number with a display name.
func (r *MemoryRoster) AddStudent(studentID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[studentID] = name
}

// AddGuardian registers a guardian record under a student name.
func (r *MemoryRoster) AddGuardian(studentName string, g Guardian) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guardians[studentName] = g
}

// NameByID returns the display name for a student number.
func (r *MemoryRoster) NameByID(ctx context.Context, studentID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names[studentID], nil
}

// GuardianByName returns the guardian record for a student name.
func (r *MemoryRoster) GuardianByName(ctx context.Context, studentName string) (*Guardian, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guardians[studentName]
	if !ok {
		return nil, nil
	}
	return &g, nil
}
