package kernel

import (
	"strings"
	"time"
)

const (
	dutyDateLayout    = "02Jan2006"
	displayTimeLayout = "02-Jan-2006 03:04:05 PM"
)

// DutyDate returns the day key of duty buckets, e.g. "14OCT2026".
func DutyDate(t time.Time) string {
	return strings.ToUpper(t.Format(dutyDateLayout))
}

// DisplayTime formats t for notifications, e.g. "14-Oct-2026 05:21:09 AM".
func DisplayTime(t time.Time) string {
	return t.Format(displayTimeLayout)
}

// UnixMillis converts t to the millisecond timestamps stored in documents.
func UnixMillis(t time.Time) int64 {
	return t.UnixMilli()
}
