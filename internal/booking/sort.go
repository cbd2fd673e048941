package booking

import (
	"sort"
	"time"

	"github.com/arcticauto/booking-gateway/internal/calendar"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
)

// SplitBookings separates a customer's bookings into active ones (Pending or
// Confirmed) and history. History keeps server order.
func SplitBookings(bookings []shopapi.Booking) (active, history []shopapi.Booking) {
	active = make([]shopapi.Booking, 0, len(bookings))
	history = make([]shopapi.Booking, 0, len(bookings))
	for _, b := range bookings {
		if Status(b.Status).Active() {
			active = append(active, b)
		} else {
			history = append(history, b)
		}
	}
	return active, history
}

// SortActive orders active bookings in place: all Confirmed before all
// Pending, and within each status by scheduled time ascending, nearest
// first.
func SortActive(bookings []shopapi.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		ri, rj := Status(bookings[i].Status).sortRank(), Status(bookings[j].Status).sortRank()
		if ri != rj {
			return ri < rj
		}
		return ScheduledAt(bookings[i]).Before(ScheduledAt(bookings[j]))
	})
}

// ScheduledAt combines a booking's scheduled date and start time into a
// comparable timestamp. Unparseable parts fall back to the zero time so bad
// records sort first rather than panicking.
func ScheduledAt(b shopapi.Booking) time.Time {
	date, err := time.Parse(calendar.DateFormat, b.ScheduledDate)
	if err != nil {
		return time.Time{}
	}
	if h, m, err := calendar.ParseClock(b.StartTime); err == nil {
		return date.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}
	return date
}
