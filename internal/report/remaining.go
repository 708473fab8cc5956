package report

import (
	"fmt"
	"time"
)

// FormatRemaining renders the time left until deletion.
func FormatRemaining(deletion *time.Time, now time.Time) string {
	if deletion == nil || deletion.IsZero() {
		return "N/A"
	}

	left := deletion.Sub(now)
	if left <= 0 {
		return "Overdue"
	}

	minutes := int64(left / time.Minute)
	days := minutes / (24 * 60)
	hours := (minutes / 60) % 24
	minutes = minutes % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
