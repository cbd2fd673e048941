// Package booking implements the appointment selection and submission
// workflow for the service shop: slot partitioning, the session selection
// state machine, availability guards, and booking list ordering.
package booking

// Status is the lifecycle state of a booking as the shop service reports it.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusConfirmed   Status = "Confirmed"
	StatusRescheduled Status = "Rescheduled"
	StatusCancelled   Status = "Cancelled"
	StatusCompleted   Status = "Completed"
	StatusNoShow      Status = "No-Show"
)

// Active reports whether the booking still occupies an upcoming slot from
// the customer's point of view.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether the booking can no longer change state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// sortRank orders active bookings: Confirmed ahead of Pending.
func (s Status) sortRank() int {
	if s == StatusConfirmed {
		return 0
	}
	return 1
}

// Icon returns the display icon name for a status, for the history view.
func (s Status) Icon() string {
	switch s {
	case StatusPending:
		return "hourglass"
	case StatusConfirmed:
		return "check-circle"
	case StatusRescheduled:
		return "calendar-clock"
	case StatusCancelled:
		return "x-circle"
	case StatusCompleted:
		return "badge-check"
	case StatusNoShow:
		return "user-x"
	default:
		return "help-circle"
	}
}
