package booking

import "errors"

// ValidationError is a missing-precondition failure caught before any
// network call. Message is safe to show to the customer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "booking: " + e.Message
}

// ErrTechnicianTaken is returned when the selected technician shows up in
// the booked set fetched right before submission. It is an expected business
// outcome, not a fault: the customer re-selects and tries again.
var ErrTechnicianTaken = errors.New("booking: technician is no longer available for the selected slot")
