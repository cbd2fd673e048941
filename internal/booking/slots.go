package booking

import (
	"github.com/arcticauto/booking-gateway/internal/calendar"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
)

// Period is the coarse AM/PM filter applied to slots for display.
type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

// PartitionSlots splits slots into AM (start hour < 12) and PM (start hour
// >= 12) buckets. Server order is preserved within each bucket. Slots whose
// start time cannot be parsed are dropped.
func PartitionSlots(slots []shopapi.TimeSlot) (am, pm []shopapi.TimeSlot) {
	am = make([]shopapi.TimeSlot, 0, len(slots))
	pm = make([]shopapi.TimeSlot, 0, len(slots))
	for _, s := range slots {
		hour, _, err := calendar.ParseClock(s.StartTime)
		if err != nil {
			continue
		}
		if hour < 12 {
			am = append(am, s)
		} else {
			pm = append(pm, s)
		}
	}
	return am, pm
}
