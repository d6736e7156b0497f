package dashboard

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTermRenderer_NoAttendeesPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	r := NewTermRenderer(&buf)

	r.RenderAttendees(time.Date(2025, 7, 14, 12, 0, 0, 0, time.Local), nil)

	out := buf.String()
	require.Contains(t, out, "現在の在席者: 0名")
	require.Contains(t, out, "現在、在席中の生徒はいません")
}

func TestTermRenderer_CardsWithDurationFallback(t *testing.T) {
	var buf bytes.Buffer
	r := NewTermRenderer(&buf)
	r.now = func() time.Time { return time.Date(2025, 7, 14, 11, 0, 0, 0, time.Local) }

	r.RenderAttendees(time.Date(2025, 7, 14, 11, 0, 0, 0, time.Local), []Attendee{
		{ID: "25D005", Name: "山田太郎", EntryTime: "09:30"},          // duration computed
		{ID: "25D007", Name: "佐藤次郎", EntryTime: "10:00", Duration: "1h 0m"}, // server-supplied
	})

	out := buf.String()
	require.Contains(t, out, "山田太郎 (ID: 25D005)")
	require.Contains(t, out, "1h 30m")
	require.Contains(t, out, "1h 0m")
}

func TestTermRenderer_Error(t *testing.T) {
	var buf bytes.Buffer
	r := NewTermRenderer(&buf)
	r.RenderError(messages[ErrNetwork])
	require.Contains(t, buf.String(), messages[ErrNetwork])
}
