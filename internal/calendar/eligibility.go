package calendar

import (
	"fmt"
	"time"
)

// BlockedDates is the shop-closure overlay for the reschedule calendar,
// keyed by DateFormat date string.
type BlockedDates map[string]bool

// Blocked reports whether the shop is closed on the given date.
func (b BlockedDates) Blocked(date time.Time) bool {
	if b == nil {
		return false
	}
	return b[date.Format(DateFormat)]
}

// DaySelectable reports whether a grid day can be picked: it must belong to
// the visible month, not be strictly before today (time of day ignored), and
// not be shop-blocked.
func DaySelectable(day Day, today time.Time, blocked BlockedDates) bool {
	if day.OutsideMonth {
		return false
	}
	if beforeDay(day.Date, today) {
		return false
	}
	if blocked.Blocked(day.Date) {
		return false
	}
	return true
}

// SlotSelectable reports whether a slot starting at start (wall-clock string,
// "15:04" or "15:04:05") on date can still be picked at now. Slots on future
// dates are always eligible; slots today must start after the current time.
func SlotSelectable(date time.Time, start string, now time.Time) bool {
	if beforeDay(now, date) {
		return true
	}
	if beforeDay(date, now) {
		return false
	}
	h, m, err := ParseClock(start)
	if err != nil {
		return false
	}
	slotStart := time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, now.Location())
	return slotStart.After(now)
}

// ParseClock parses a wall-clock time-of-day string into hour and minute.
func ParseClock(s string) (hour, min int, err error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("calendar: invalid clock time %q", s)
}

// beforeDay compares calendar dates only, ignoring time of day.
func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
