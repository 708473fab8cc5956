package util

import (
	"fmt"
	"time"
)

const MillisPerHour int64 = 3_600_000

func HoursToMillis(hours int64) int64 {
	return hours * MillisPerHour
}

// MillisToHours uses integer division, partial hours are dropped.
func MillisToHours(ms int64) int64 {
	return ms / MillisPerHour
}

// FormatHours renders a millisecond duration as whole hours, or hours and minutes when not whole.
func FormatHours(ms int64) string {
	if ms%MillisPerHour == 0 {
		return fmt.Sprintf("%dh", ms/MillisPerHour)
	}

	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%dh %dm", int64(d.Hours()), int64(d.Minutes())%60)
}

// FormatTime renders a nullable timestamp for tables, nil and the zero time give "N/A".
func FormatTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}
