package snapshot

import "fmt"

// ticksPerSecond is the Jellyfin time unit: one tick is 1/10,000,000 second.
const ticksPerSecond = 10_000_000

// TicksToSeconds converts a tick count to whole seconds, truncating the
// sub-second remainder.
func TicksToSeconds(ticks int64) int64 {
	return ticks / ticksPerSecond
}

// SecondsToTimestamp formats a duration in seconds as "H:MM:SS".
// Hours are not zero-padded, so 3000 seconds renders as "0:50:00".
func SecondsToTimestamp(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
}
