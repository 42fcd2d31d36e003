package history

import (
	"fmt"
	"time"
)

// FormatTimestamp renders ts relative to now: minutes within the first
// hour, hours within the first day, days within the first week, and a
// plain date after that.
func FormatTimestamp(ts time.Time, now time.Time) string {
	diff := now.Sub(ts)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff/(24*time.Hour)))
	default:
		return ts.Local().Format("2006-01-02")
	}
}
