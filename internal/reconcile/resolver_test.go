package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"onedrop/internal/sheet"
)

var base = time.Date(2025, 7, 14, 10, 0, 0, 0, time.Local)

func row(num int, id string, entry, exit time.Time) sheet.Row {
	return sheet.Row{Num: num, StudentID: id, EntryTime: entry, ExitTime: exit}
}

func TestFindOpenRow_PicksMostRecentOpen(t *testing.T) {
	rows := []sheet.Row{
		row(2, "25D005", base.Add(-3*time.Hour), base.Add(-2*time.Hour)),
		row(3, "25D005", base.Add(-90*time.Minute), time.Time{}),
		row(4, "25D007", base.Add(-time.Hour), time.Time{}),
		row(5, "25D005", base.Add(-30*time.Minute), time.Time{}),
	}

	got, ok := FindOpenRow(rows, "25D005", false, base)
	require.True(t, ok)
	require.Equal(t, 5, got.Num, "backward scan picks the most recently appended open row")
}

func TestFindOpenRow_SkipsClosedSessions(t *testing.T) {
	rows := []sheet.Row{
		row(2, "25D005", base.Add(-3*time.Hour), base.Add(-2*time.Hour)),
	}

	_, ok := FindOpenRow(rows, "25D005", false, base)
	require.False(t, ok)
}

func TestFindOpenRow_UnknownStudent(t *testing.T) {
	rows := []sheet.Row{
		row(2, "25D005", base.Add(-time.Hour), time.Time{}),
	}

	_, ok := FindOpenRow(rows, "25D999", false, base)
	require.False(t, ok)
}

func TestFindOpenRow_TodayOnly(t *testing.T) {
	yesterday := base.AddDate(0, 0, -1)
	rows := []sheet.Row{
		row(2, "25D005", yesterday, time.Time{}),
		row(3, "25D005", base.Add(-time.Hour), time.Time{}),
	}

	got, ok := FindOpenRow(rows, "25D005", true, base)
	require.True(t, ok)
	require.Equal(t, 3, got.Num)

	// Without the restriction the same scan still prefers the newest row.
	got, ok = FindOpenRow(rows, "25D005", false, base)
	require.True(t, ok)
	require.Equal(t, 3, got.Num)
}

func TestFindOpenRow_TodayOnlySkipsStaleOpenRows(t *testing.T) {
	yesterday := base.AddDate(0, 0, -1)
	rows := []sheet.Row{
		row(2, "25D005", yesterday, time.Time{}),
	}

	_, ok := FindOpenRow(rows, "25D005", true, base)
	require.False(t, ok)
}

func TestFindLatestTouchedCell_LastRowEntryWins(t *testing.T) {
	rows := []sheet.Row{
		row(2, "25D005", base.Add(-2*time.Hour), base.Add(-3*time.Hour)), // stale exit, not today relevant below
		row(3, "25D007", base.Add(-5*time.Minute), time.Time{}),
	}

	cell, ok := FindLatestTouchedCell(rows, base)
	require.True(t, ok)
	require.Equal(t, 3, cell.Row)
	require.Equal(t, sheet.ColEntryTime, cell.Column)
	require.Equal(t, base.Add(-5*time.Minute), cell.Timestamp)
}

func TestFindLatestTouchedCell_TodaysExitBeatsOlderEntry(t *testing.T) {
	rows := []sheet.Row{
		row(2, "25D005", base.Add(-2*time.Hour), base.Add(-time.Minute)),
		row(3, "25D007", base.Add(-90*time.Minute), time.Time{}),
	}

	cell, ok := FindLatestTouchedCell(rows, base)
	require.True(t, ok)
	require.Equal(t, 2, cell.Row)
	require.Equal(t, sheet.ColExitTime, cell.Column)
	require.Equal(t, base.Add(-time.Minute), cell.Timestamp)
}

func TestFindLatestTouchedCell_IgnoresExitsFromOtherDays(t *testing.T) {
	yesterday := base.AddDate(0, 0, -1)
	rows := []sheet.Row{
		row(2, "25D005", yesterday.Add(-time.Hour), yesterday),
		row(3, "25D007", base.Add(-time.Hour), time.Time{}),
	}

	cell, ok := FindLatestTouchedCell(rows, base)
	require.True(t, ok)
	require.Equal(t, sheet.ColEntryTime, cell.Column)
	require.Equal(t, 3, cell.Row)
}

func TestFindLatestTouchedCell_Empty(t *testing.T) {
	_, ok := FindLatestTouchedCell(nil, base)
	require.False(t, ok)
}
