package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFallbackDuration_SameDay(t *testing.T) {
	now := time.Date(2025, 7, 14, 12, 45, 0, 0, time.Local)
	require.Equal(t, "3h 15m", FallbackDuration("09:30", now))
}

func TestFallbackDuration_OvernightWraparound(t *testing.T) {
	// Entry 23:50 seen at 00:10 the next day is 20 minutes, not negative.
	now := time.Date(2025, 7, 15, 0, 10, 0, 0, time.Local)
	require.Equal(t, "0h 20m", FallbackDuration("23:50", now))
}

func TestFallbackDuration_WithSeconds(t *testing.T) {
	now := time.Date(2025, 7, 14, 10, 0, 30, 0, time.Local)
	require.Equal(t, "1h 0m", FallbackDuration("09:00:30", now))
}

func TestFallbackDuration_Unparseable(t *testing.T) {
	now := time.Date(2025, 7, 14, 12, 0, 0, 0, time.Local)
	require.Equal(t, DurationUnknown, FallbackDuration("昼ごろ", now))
}

func TestFallbackDuration_Empty(t *testing.T) {
	now := time.Date(2025, 7, 14, 12, 0, 0, 0, time.Local)
	require.Equal(t, "0h 0m", FallbackDuration("", now))
}

func TestFallbackDuration_EntryEqualsNow(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 30, 0, 0, time.Local)
	require.Equal(t, "0h 0m", FallbackDuration("09:30", now))
}
