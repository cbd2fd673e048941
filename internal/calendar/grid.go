// Package calendar builds the fixed 6x7 month grid the booking UI renders
// and owns the day/slot eligibility rules.
package calendar

import "time"

// GridSize is the fixed cell count of the month view: 6 rows of 7 days,
// regardless of month length.
const GridSize = 42

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Day is one cell of the month grid.
type Day struct {
	Date         time.Time `json:"date"`
	OutsideMonth bool      `json:"isOutsideMonth"`
}

// MonthGrid returns exactly GridSize days for the month containing ref:
// the weekday offset of the 1st as trailing days of the previous month,
// then the month itself, then leading days of the next month to pad out
// the grid. Weeks start on Sunday.
func MonthGrid(ref time.Time) []Day {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	startDay := int(first.Weekday())

	days := make([]Day, 0, GridSize)
	for i := startDay; i > 0; i-- {
		days = append(days, Day{Date: first.AddDate(0, 0, -i), OutsideMonth: true})
	}

	cur := first
	for cur.Month() == first.Month() {
		days = append(days, Day{Date: cur})
		cur = cur.AddDate(0, 0, 1)
	}

	for len(days) < GridSize {
		days = append(days, Day{Date: cur, OutsideMonth: true})
		cur = cur.AddDate(0, 0, 1)
	}
	return days
}

// MonthBounds returns the first and last day of the month containing ref.
func MonthBounds(ref time.Time) (time.Time, time.Time) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
