package dashboard

import (
	"fmt"
	"time"
)

// DurationUnknown is rendered when the entry time cannot be parsed.
const DurationUnknown = "不明"

// entryTimeLayouts are the accepted time-of-day formats of the read
// endpoint's entryTime field.
var entryTimeLayouts = []string{"15:04", "15:04:05"}

// FallbackDuration computes "Xh Ym" client-side when the server sent no
// duration. The entry time-of-day is anchored to now's date; an instant in
// the future is taken to mean the previous calendar day (overnight
// wraparound). Negative results clamp to zero.
func FallbackDuration(entryTime string, now time.Time) string {
	if entryTime == "" {
		return "0h 0m"
	}

	var tod time.Time
	var err error
	for _, layout := range entryTimeLayouts {
		tod, err = time.Parse(layout, entryTime)
		if err == nil {
			break
		}
	}
	if err != nil {
		return DurationUnknown
	}

	entry := time.Date(now.Year(), now.Month(), now.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, now.Location())
	if entry.After(now) {
		entry = entry.AddDate(0, 0, -1)
	}

	mins := int(now.Sub(entry).Minutes())
	if mins < 0 {
		return "0h 0m"
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}
