// Package trigger turns raw sheet-change events into notifications. This is
// the ambiguous path: a webhook reports that something changed, and the
// handler has to work out which row and whether it means an entry or an
// exit. It runs outside the action endpoint's lock; the notification log's
// unique-key scan reconciles the two paths after the fact.
package trigger

import (
	"context"
	"log"
	"time"

	"onedrop/internal/notify"
	"onedrop/internal/reconcile"
	"onedrop/internal/roster"
	"onedrop/internal/sheet"
)

// Event kinds reported by the webhook.
const (
	KindEdit   = "edit"   // a known cell was edited
	KindChange = "change" // structure changed, touched cell unknown
)

// ChangeEvent is the queue payload for one sheet change.
type ChangeEvent struct {
	ID     string    `json:"id"`
	Sheet  string    `json:"sheet"`
	Kind   string    `json:"kind"`
	Row    int       `json:"row,omitempty"`
	Column int       `json:"column,omitempty"`
	At     time.Time `json:"at"`
}

// Handler processes change events for the input sheet.
type Handler struct {
	sheetName string
	store     sheet.Store
	roster    roster.Roster
	gate      *reconcile.Gate
	pipeline  *notify.Pipeline
	now       func() time.Time
}

// NewHandler wires a handler.
func NewHandler(sheetName string, store sheet.Store, r roster.Roster, gate *reconcile.Gate, pipeline *notify.Pipeline) *Handler {
	return &Handler{
		sheetName: sheetName,
		store:     store,
		roster:    r,
		gate:      gate,
		pipeline:  pipeline,
		now:       time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// Handle dispatches one change event.
func (h *Handler) Handle(ctx context.Context, ev ChangeEvent) {
	if ev.Sheet != h.sheetName {
		return
	}
	switch ev.Kind {
	case KindEdit:
		h.handleEdit(ctx, ev.Row)
	case KindChange:
		h.handleChange(ctx)
	default:
		log.Printf("unknown change kind %q, ignoring", ev.Kind)
	}
}

// handleEdit runs the full priority classification for a known row.
func (h *Handler) handleEdit(ctx context.Context, rowNum int) {
	if rowNum <= sheet.HeaderRow {
		return
	}
	if h.gate.Seen(reconcile.CacheKey(h.sheetName, rowNum, reconcile.SourceEdit)) {
		log.Printf("edit trigger suppressed for row %d", rowNum)
		return
	}

	row, err := h.store.Row(ctx, rowNum)
	if err != nil {
		log.Printf("edit trigger: row %d fetch failed: %v", rowNum, err)
		return
	}

	ev := reconcile.Classify(reconcile.Snapshot{
		EntryTime: row.EntryTime,
		StudentID: row.StudentID,
		ExitTime:  row.ExitTime,
	}, reconcile.SourceEdit)
	if ev.Kind == reconcile.NoEvent {
		return
	}

	h.notifyRow(ctx, row, ev, reconcile.SourceEdit)
}

// handleChange infers the touched cell from the table itself: the last
// row's entry time competes with today's latest exit time.
func (h *Handler) handleChange(ctx context.Context) {
	rows, err := h.store.AllRows(ctx)
	if err != nil {
		log.Printf("change trigger: table scan failed: %v", err)
		return
	}

	cell, ok := reconcile.FindLatestTouchedCell(rows, h.now())
	if !ok {
		return
	}
	if h.gate.Seen(reconcile.CacheKey(h.sheetName, cell.Row, reconcile.SourceChange)) {
		log.Printf("change trigger suppressed for row %d", cell.Row)
		return
	}

	row, err := h.store.Row(ctx, cell.Row)
	if err != nil {
		log.Printf("change trigger: row %d fetch failed: %v", cell.Row, err)
		return
	}

	var ev reconcile.Event
	if cell.Column == sheet.ColEntryTime {
		ev = reconcile.Classify(reconcile.Snapshot{
			EntryTime: row.EntryTime,
			StudentID: row.StudentID,
			ExitTime:  row.ExitTime,
		}, reconcile.SourceChange)
		if ev.Kind == reconcile.NoEvent {
			return
		}
	} else {
		ev = reconcile.Event{Kind: reconcile.ExitEvent, Timestamp: cell.Timestamp}
	}

	h.notifyRow(ctx, row, ev, reconcile.SourceChange)
}

func (h *Handler) notifyRow(ctx context.Context, row sheet.Row, ev reconcile.Event, source reconcile.TriggerSource) {
	name, err := h.roster.NameByID(ctx, row.StudentID)
	if err != nil {
		log.Printf("name lookup failed for %s: %v", row.StudentID, err)
		return
	}
	if name == "" {
		log.Printf("student %s not registered, skipping notification", row.StudentID)
		return
	}

	status := notify.StatusEntry
	if ev.Kind == reconcile.ExitEvent {
		status = notify.StatusExit
	}

	h.pipeline.Send(ctx, notify.Notification{
		StudentID:   row.StudentID,
		StudentName: name,
		Status:      status,
		Timestamp:   ev.Timestamp,
		Row:         row.Num,
		Source:      source,
	})
}
