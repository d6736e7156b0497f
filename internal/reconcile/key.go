package reconcile

import (
	"fmt"
	"time"
)

// UniqueKey builds the dedup token for one event occurrence. Row number and
// millisecond timestamp scope the key to a specific cell write, so the same
// student may enter and exit repeatedly without colliding. A zero row or an
// empty source use the historical fallbacks.
func UniqueKey(studentID, status string, row int, ts time.Time, source TriggerSource) string {
	rowPart := "0"
	if row > 0 {
		rowPart = fmt.Sprintf("%d", row)
	}
	src := string(source)
	if src == "" {
		src = "manual"
	}
	return fmt.Sprintf("%s_%s_%s_%d_%s", studentID, status, rowPart, ts.UnixMilli(), src)
}
