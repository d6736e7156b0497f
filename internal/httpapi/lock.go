package httpapi

import "time"

// Lock is the process-wide mutual exclusion guarding store mutations, with a
// bounded acquire so a stuck holder turns into busy responses instead of
// piled-up requests.
type Lock struct {
	ch chan struct{}
}

// NewLock creates an unheld lock.
func NewLock() *Lock {
	return &Lock{ch: make(chan struct{}, 1)}
}

// TryLock acquires the lock, waiting at most wait. It reports whether the
// lock was acquired.
func (l *Lock) TryLock(wait time.Duration) bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case l.ch <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

// Unlock releases the lock.
func (l *Lock) Unlock() {
	select {
	case <-l.ch:
	default:
	}
}
