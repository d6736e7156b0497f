package dashboard

import (
	"fmt"
	"io"
	"time"
)

// Renderer displays fetch results. The poller calls exactly one of the two
// methods per fetch cycle.
type Renderer interface {
	RenderAttendees(fetchedAt time.Time, attendees []Attendee)
	RenderError(message string)
}

// TermRenderer writes attendee cards to a terminal.
type TermRenderer struct {
	W   io.Writer
	now func() time.Time
}

// NewTermRenderer creates a renderer over w.
func NewTermRenderer(w io.Writer) *TermRenderer {
	return &TermRenderer{W: w, now: time.Now}
}

// RenderAttendees prints the current attendee list.
func (r *TermRenderer) RenderAttendees(fetchedAt time.Time, attendees []Attendee) {
	fmt.Fprintf(r.W, "最終更新: %s\n", fetchedAt.Format("2006/01/02 15:04:05"))
	fmt.Fprintf(r.W, "現在の在席者: %d名\n", len(attendees))

	if len(attendees) == 0 {
		fmt.Fprintln(r.W, "現在、在席中の生徒はいません")
		return
	}
	for _, a := range attendees {
		duration := a.Duration
		if duration == "" {
			duration = FallbackDuration(a.EntryTime, r.now())
		}
		fmt.Fprintf(r.W, "  %s (ID: %s)  入室: %s  %s\n", a.Name, a.ID, a.EntryTime, duration)
	}
}

// RenderError prints a failure message.
func (r *TermRenderer) RenderError(message string) {
	fmt.Fprintf(r.W, "⚠ %s\n", message)
}
