package reconcile

import (
	"fmt"
	"sync"
	"time"
)

// Gate suppresses rapid repeated trigger firings. A single sheet edit can
// fire more than one webhook; the gate drops repeats of the same key inside
// the window. It is process-local and best-effort only — the notification
// log's unique-key scan remains the durable guard.
type Gate struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	seen   map[string]time.Time
}

// NewGate creates a gate with the given suppression window.
func NewGate(window time.Duration) *Gate {
	if window <= 0 {
		window = 5 * time.Second
	}
	return &Gate{
		window: window,
		now:    time.Now,
		seen:   make(map[string]time.Time),
	}
}

// SetClock overrides the time source, for tests.
func (g *Gate) SetClock(now func() time.Time) { g.now = now }

// Seen reports whether key fired within the window, stamping it either way.
// Stale keys are swept as a side effect of every check.
func (g *Gate) Seen(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	last, ok := g.seen[key]
	recent := ok && now.Sub(last) < g.window
	if !recent {
		g.seen[key] = now
	}

	for k, t := range g.seen {
		if now.Sub(t) > g.window {
			delete(g.seen, k)
		}
	}

	return recent
}

// CacheKey builds the suppression key for one trigger firing.
func CacheKey(sheetName string, row int, source TriggerSource) string {
	return fmt.Sprintf("%s_%d_%s", sheetName, row, source)
}
