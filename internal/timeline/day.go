package timeline

import "time"

// DayWindow returns the UTC half-open range [local midnight, local midnight
// + 24h) of the calendar day containing now in loc. Compaction operates over
// exactly one such window; historical days are addressed by passing an
// earlier now.
func DayWindow(now time.Time, loc *time.Location) (from, to time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.Add(24 * time.Hour).UTC()
}
