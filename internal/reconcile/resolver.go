// Package reconcile decides, from a direct action or an ambiguous sheet
// change, which attendance row is the authoritative new entry or exit event,
// and suppresses duplicate trigger firings.
package reconcile

import (
	"time"

	"onedrop/internal/sheet"
)

// FindOpenRow scans the table backward and returns the most recent row for
// studentID whose exit is still empty. The backward scan is the tie-break
// when bad data leaves several sessions open at once. With todayOnly set,
// only rows whose entry falls on now's calendar date qualify.
func FindOpenRow(rows []sheet.Row, studentID string, todayOnly bool, now time.Time) (sheet.Row, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		if r.StudentID != studentID {
			continue
		}
		if !r.Open() {
			continue
		}
		if todayOnly {
			if r.EntryTime.IsZero() || !sameDate(r.EntryTime, now) {
				continue
			}
		}
		return r, true
	}
	return sheet.Row{}, false
}

// TouchedCell identifies the cell a raw change notification most plausibly
// refers to.
type TouchedCell struct {
	Row       int
	Column    int // sheet.ColEntryTime or sheet.ColExitTime
	Timestamp time.Time
}

// FindLatestTouchedCell infers which cell changed when the notification does
// not say. Two candidates compete: the structurally-last row's entry time,
// and the latest exit time recorded on now's calendar date anywhere in the
// table. The later timestamp wins.
func FindLatestTouchedCell(rows []sheet.Row, now time.Time) (TouchedCell, bool) {
	var latest TouchedCell

	if n := len(rows); n > 0 {
		last := rows[n-1]
		if !last.EntryTime.IsZero() {
			latest = TouchedCell{Row: last.Num, Column: sheet.ColEntryTime, Timestamp: last.EntryTime}
		}
	}

	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		if r.ExitTime.IsZero() || !sameDate(r.ExitTime, now) {
			continue
		}
		if latest.Timestamp.IsZero() || r.ExitTime.After(latest.Timestamp) {
			latest = TouchedCell{Row: r.Num, Column: sheet.ColExitTime, Timestamp: r.ExitTime}
		}
	}

	if latest.Timestamp.IsZero() {
		return TouchedCell{}, false
	}
	return latest, true
}

func sameDate(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
