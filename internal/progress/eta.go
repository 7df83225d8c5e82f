package progress

import (
	"fmt"
	"time"
)

// FormatETA renders a remaining-time estimate in the coarsest pair of
// units that fits: "57s", "3m 20s", "2h 5m", "1d 3h". Negative values
// clamp to zero.
func FormatETA(eta time.Duration) string {
	secs := int64(eta.Seconds())
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	case secs < 86400:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	default:
		return fmt.Sprintf("%dd %dh", secs/86400, (secs%86400)/3600)
	}
}
