// Package availability derives open/closed state from the per-weekday
// schedule.
package availability

import (
	"time"

	"github.com/ruokapaikka/api/internal/database"
)

// TodayHours returns the schedule row for now's day of week, or nil if
// none exists. A missing row means closed for that day.
func TodayHours(hours []database.OpeningHour, now time.Time) *database.OpeningHour {
	day := int32(now.Weekday()) // Sunday = 0, matches day_of_week
	for i := range hours {
		if hours[i].DayOfWeek == day {
			return &hours[i]
		}
	}
	return nil
}

// IsOpen reports whether the current time falls within today's window,
// inclusive of both bounds. Comparison is lexicographic on "HH:MM";
// correct only because stored bounds and the formatted clock are both
// zero-padded 24-hour values.
func IsOpen(hours []database.OpeningHour, now time.Time) bool {
	today := TodayHours(hours, now)
	if today == nil || today.IsClosed {
		return false
	}
	if today.OpenTime == "" || today.CloseTime == "" {
		return false
	}
	clock := now.Format("15:04")
	return clock >= today.OpenTime && clock <= today.CloseTime
}
