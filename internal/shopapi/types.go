package shopapi

import "fmt"

// TimeSlot is a bookable interval on a given date. Start and end times are
// wall-clock strings as the shop service returns them, e.g. "09:00".
type TimeSlot struct {
	ID        int64  `json:"timeSlotId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	// Available is only populated in the reschedule flow; nil means the
	// service did not flag the slot either way.
	Available *bool `json:"isAvailable,omitempty"`
}

// TechnicianAvailability reports whether a technician can take a specific
// (date, slot) pair. Available=false means already booked for that exact slot.
type TechnicianAvailability struct {
	ID        int64  `json:"technicianId"`
	Name      string `json:"technicianName"`
	Available bool   `json:"isAvailable"`
}

// Booking is the server-owned appointment record.
type Booking struct {
	ID             int64  `json:"bookingId"`
	CustomerID     int64  `json:"customerId"`
	TechnicianID   int64  `json:"technicianId"`
	TechnicianName string `json:"technicianName,omitempty"`
	TimeSlotID     int64  `json:"timeSlotId"`
	ScheduledDate  string `json:"scheduledDate"` // YYYY-MM-DD
	StartTime      string `json:"startTime,omitempty"`
	EndTime        string `json:"endTime,omitempty"`
	Status         string `json:"status"`
	Notes          string `json:"notes,omitempty"`
}

// SlotDate is a shop-level open/closed flag for a calendar date.
type SlotDate struct {
	Date string `json:"slotDate"` // YYYY-MM-DD
	Open bool   `json:"isOpen"`
}

// CreateBookingRequest is the payload for creating a booking.
type CreateBookingRequest struct {
	CustomerID   int64  `json:"customerId"`
	TechnicianID int64  `json:"technicianId"`
	TimeSlotID   int64  `json:"timeSlotId"`
	Notes        string `json:"notes"`
}

// RescheduleRequest carries the new slot/technician/date for an existing booking.
type RescheduleRequest struct {
	TimeSlotID      int64  `json:"timeSlotId"`
	TechnicianID    int64  `json:"technicianId"`
	RescheduledDate string `json:"rescheduledDate"` // YYYY-MM-DD
}

// APIError is a non-2xx response from the shop service. Message is the
// server's message string verbatim when the body carried one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("shopapi: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("shopapi: status %d", e.StatusCode)
}
