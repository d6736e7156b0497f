package reconcile

import "time"

// TriggerSource tags which stimulus produced a reconciliation attempt. The
// tag feeds both suppression keys and notification unique keys.
type TriggerSource string

const (
	// SourceAPI marks events from the synchronous action endpoint.
	SourceAPI TriggerSource = "doPost"
	// SourceEdit marks events from a cell-edit webhook for a known row.
	SourceEdit TriggerSource = "onEdit"
	// SourceChange marks events from a structural-change webhook where the
	// touched cell must be inferred.
	SourceChange TriggerSource = "onChange"
)

// EventKind is the classification outcome.
type EventKind int

const (
	NoEvent EventKind = iota
	EntryEvent
	ExitEvent
)

// Event is a tagged classification result. Timestamp is zero for NoEvent.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
}

// Snapshot is the "what changed" view of one row handed to the classifier:
// just the three columns the decision depends on.
type Snapshot struct {
	EntryTime time.Time
	StudentID string
	ExitTime  time.Time
}

// Classify decides whether a row snapshot represents an entry or an exit.
//
// For SourceChange a new row was appended, so only a fresh entry qualifies:
// entry time and student number present, exit empty.
//
// For SourceEdit the branch order is load-bearing:
//  1. both timestamps present: exit after entry is an exit; exit at or
//     before entry falls back to an entry at the entry time, which absorbs
//     out-of-order edits
//  2. entry and student number only: entry
//  3. exit only: exit
//  4. anything else: no event
func Classify(s Snapshot, source TriggerSource) Event {
	if s.StudentID == "" {
		return Event{Kind: NoEvent}
	}

	switch source {
	case SourceChange:
		if !s.EntryTime.IsZero() && s.ExitTime.IsZero() {
			return Event{Kind: EntryEvent, Timestamp: s.EntryTime}
		}
		return Event{Kind: NoEvent}

	case SourceEdit:
		if !s.ExitTime.IsZero() && !s.EntryTime.IsZero() {
			if s.ExitTime.After(s.EntryTime) {
				return Event{Kind: ExitEvent, Timestamp: s.ExitTime}
			}
			return Event{Kind: EntryEvent, Timestamp: s.EntryTime}
		}
		if !s.EntryTime.IsZero() && s.ExitTime.IsZero() {
			return Event{Kind: EntryEvent, Timestamp: s.EntryTime}
		}
		if !s.ExitTime.IsZero() {
			return Event{Kind: ExitEvent, Timestamp: s.ExitTime}
		}
		return Event{Kind: NoEvent}
	}

	return Event{Kind: NoEvent}
}
