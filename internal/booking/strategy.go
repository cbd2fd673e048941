package booking

import (
	"context"

	"github.com/arcticauto/booking-gateway/internal/calendar"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
)

// SubmitStrategy is the single point where the create and reschedule flows
// differ: both share the same state machine and guards, only the final
// network call is swapped.
type SubmitStrategy interface {
	// Name identifies the flow in logs and metrics.
	Name() string
	// Validate checks strategy-specific preconditions before any network call.
	Validate(st *State) error
	// Submit performs the mutation against the shop service.
	Submit(ctx context.Context, api ShopAPI, token string, st *State) (*shopapi.Booking, error)
}

// CreateStrategy submits a brand-new booking for a customer.
type CreateStrategy struct {
	CustomerID int64
	Notes      string
}

func (s CreateStrategy) Name() string { return string(FlowCreate) }

func (s CreateStrategy) Validate(st *State) error {
	if s.CustomerID == 0 {
		return &ValidationError{Field: "customer", Message: "could not resolve your customer account, please sign in again"}
	}
	return nil
}

func (s CreateStrategy) Submit(ctx context.Context, api ShopAPI, token string, st *State) (*shopapi.Booking, error) {
	return api.CreateBooking(ctx, token, shopapi.CreateBookingRequest{
		CustomerID:   s.CustomerID,
		TechnicianID: st.Technician.ID,
		TimeSlotID:   st.Slot.ID,
		Notes:        s.Notes,
	})
}

// RescheduleStrategy moves an existing booking to the new selection.
type RescheduleStrategy struct {
	BookingID int64
}

func (s RescheduleStrategy) Name() string { return string(FlowReschedule) }

func (s RescheduleStrategy) Validate(st *State) error {
	if s.BookingID == 0 {
		return &ValidationError{Field: "booking", Message: "no booking selected to reschedule"}
	}
	return nil
}

func (s RescheduleStrategy) Submit(ctx context.Context, api ShopAPI, token string, st *State) (*shopapi.Booking, error) {
	return api.RescheduleBooking(ctx, token, s.BookingID, shopapi.RescheduleRequest{
		TimeSlotID:      st.Slot.ID,
		TechnicianID:    st.Technician.ID,
		RescheduledDate: st.Date.Format(calendar.DateFormat),
	})
}
