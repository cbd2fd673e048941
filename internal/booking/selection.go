package booking

import (
	"time"

	"github.com/arcticauto/booking-gateway/internal/calendar"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
)

// Flow identifies which submit path a selection belongs to.
type Flow string

const (
	FlowCreate     Flow = "create"
	FlowReschedule Flow = "reschedule"
)

// Phase is the submission state machine position.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
)

// SlotChoice is the customer's chosen slot.
type SlotChoice struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// TechnicianChoice is the customer's chosen technician.
type TechnicianChoice struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// State is the session-local selection state machine. A choice upstream
// (date, then slot, then technician) invalidates everything downstream of
// it; server-owned data held here is a view, never a cache the shop service
// needs to invalidate.
type State struct {
	Flow      Flow  `json:"flow"`
	BookingID int64 `json:"bookingId,omitempty"` // reschedule only

	Date       *time.Time        `json:"date,omitempty"`
	Period     Period            `json:"period"`
	Slot       *SlotChoice       `json:"slot,omitempty"`
	Technician *TechnicianChoice `json:"technician,omitempty"`

	AMSlots     []shopapi.TimeSlot               `json:"amSlots"`
	PMSlots     []shopapi.TimeSlot               `json:"pmSlots"`
	Technicians []shopapi.TechnicianAvailability `json:"technicians"`
	BookedIDs   []int64                          `json:"bookedTechnicianIds"`

	Blocked calendar.BlockedDates `json:"blockedDates,omitempty"` // reschedule only

	// Which month the overlay covers and when it was fetched, so calendar
	// renders within the cache window skip the refresh.
	BlockedMonth string    `json:"blockedMonth,omitempty"`
	BlockedAt    time.Time `json:"blockedAt,omitempty"`

	Phase Phase `json:"phase"`

	// Monotonic tokens guard against overlapping fetches for the same
	// resource resolving out of order: only the newest token may apply.
	SlotToken       uint64 `json:"slotToken"`
	TechnicianToken uint64 `json:"technicianToken"`
}

// NewState returns an idle selection for the given flow, defaulting to the
// morning period.
func NewState(flow Flow) *State {
	return &State{
		Flow:   flow,
		Period: PeriodAM,
		Phase:  PhaseIdle,
	}
}

// SelectDate picks a calendar day. Ineligible days (outside month, past,
// shop-blocked) are a no-op and the method reports false so callers skip the
// slot fetch. A new date clears the slot and technician selections and every
// dependent server view.
func (s *State) SelectDate(day calendar.Day, today time.Time) bool {
	if !calendar.DaySelectable(day, today, s.Blocked) {
		return false
	}
	date := day.Date
	s.Date = &date
	s.Slot = nil
	s.Technician = nil
	s.Technicians = nil
	s.BookedIDs = nil
	return true
}

// SelectPeriod switches the AM/PM filter, always resetting the slot and
// technician selections.
func (s *State) SelectPeriod(p Period) {
	s.Period = p
	s.Slot = nil
	s.Technician = nil
	s.Technicians = nil
	s.BookedIDs = nil
}

// SelectSlot picks a slot out of the loaded buckets. Past slots, slots the
// service flagged unavailable, and slots not present in the current buckets
// are a no-op. Selecting a slot clears the technician selection.
func (s *State) SelectSlot(slotID int64, now time.Time) bool {
	if s.Date == nil {
		return false
	}
	slot, ok := s.findSlot(slotID)
	if !ok {
		return false
	}
	if !calendar.SlotSelectable(*s.Date, slot.StartTime, now) {
		return false
	}
	if slot.Available != nil && !*slot.Available {
		return false
	}
	s.Slot = &SlotChoice{ID: slot.ID, Label: slot.StartTime + " - " + slot.EndTime}
	s.Technician = nil
	s.Technicians = nil
	s.BookedIDs = nil
	return true
}

// SelectTechnician picks a technician from the loaded availability list.
// Technicians absent from the list or flagged unavailable are a no-op.
func (s *State) SelectTechnician(technicianID int64) bool {
	if s.Date == nil || s.Slot == nil {
		return false
	}
	for _, t := range s.Technicians {
		if t.ID == technicianID {
			if !t.Available {
				return false
			}
			s.Technician = &TechnicianChoice{ID: t.ID, Name: t.Name}
			return true
		}
	}
	return false
}

// NextSlotToken reserves a token for an upcoming slot fetch.
func (s *State) NextSlotToken() uint64 {
	s.SlotToken++
	return s.SlotToken
}

// NextTechnicianToken reserves a token for an upcoming technician fetch.
func (s *State) NextTechnicianToken() uint64 {
	s.TechnicianToken++
	return s.TechnicianToken
}

// ApplySlots installs a slot fetch result, replacing both buckets. Results
// carrying a stale token are discarded and the method reports false.
func (s *State) ApplySlots(token uint64, slots []shopapi.TimeSlot) bool {
	if token != s.SlotToken {
		return false
	}
	s.AMSlots, s.PMSlots = PartitionSlots(slots)
	return true
}

// ClearSlots empties both buckets, used when a slot fetch fails so the UI
// lands in the "no slots available" state.
func (s *State) ClearSlots(token uint64) bool {
	if token != s.SlotToken {
		return false
	}
	s.AMSlots = []shopapi.TimeSlot{}
	s.PMSlots = []shopapi.TimeSlot{}
	return true
}

// ApplyTechnicians installs a technician fetch result. If the currently
// selected technician shows up in the freshly fetched booked set, the
// selection is cleared: someone else took them between render and now.
func (s *State) ApplyTechnicians(token uint64, avail []shopapi.TechnicianAvailability, bookedIDs []int64) bool {
	if token != s.TechnicianToken {
		return false
	}
	s.Technicians = avail
	s.BookedIDs = bookedIDs
	s.dropTakenTechnician()
	return true
}

// ClearTechnicians empties the technician view, used when date or slot
// becomes unselected or the fetch fails.
func (s *State) ClearTechnicians() {
	s.Technicians = nil
	s.BookedIDs = nil
}

// BlockedFresh reports whether the blocked-date overlay already covers the
// given month and is younger than ttl.
func (s *State) BlockedFresh(month time.Time, now time.Time, ttl time.Duration) bool {
	if s.BlockedMonth != month.Format("2006-01") {
		return false
	}
	return now.Sub(s.BlockedAt) < ttl
}

// TechnicianBooked reports whether the technician ID is in the booked set.
func (s *State) TechnicianBooked(technicianID int64) bool {
	for _, id := range s.BookedIDs {
		if id == technicianID {
			return true
		}
	}
	return false
}

func (s *State) dropTakenTechnician() {
	if s.Technician != nil && s.TechnicianBooked(s.Technician.ID) {
		s.Technician = nil
	}
}

// Complete reports whether date, slot, and technician are all selected.
func (s *State) Complete() bool {
	return s.Date != nil && s.Slot != nil && s.Technician != nil
}

func (s *State) findSlot(slotID int64) (shopapi.TimeSlot, bool) {
	var buckets []shopapi.TimeSlot
	switch s.Period {
	case PeriodPM:
		buckets = s.PMSlots
	default:
		buckets = s.AMSlots
	}
	for _, slot := range buckets {
		if slot.ID == slotID {
			return slot, true
		}
	}
	return shopapi.TimeSlot{}, false
}
