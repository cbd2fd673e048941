package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arcticauto/booking-gateway/internal/calendar"
	"github.com/arcticauto/booking-gateway/internal/observability/metrics"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
	"github.com/arcticauto/booking-gateway/pkg/logging"
)

// ShopAPI is the slice of the shop service client the workflow needs.
type ShopAPI interface {
	SlotsByDate(ctx context.Context, date time.Time) ([]shopapi.TimeSlot, error)
	TechnicianAvailability(ctx context.Context, date time.Time, slotID int64) ([]shopapi.TechnicianAvailability, error)
	BookedTechnicians(ctx context.Context, date time.Time, slotID int64) ([]int64, error)
	CreateBooking(ctx context.Context, token string, req shopapi.CreateBookingRequest) (*shopapi.Booking, error)
	RescheduleBooking(ctx context.Context, token string, id int64, req shopapi.RescheduleRequest) (*shopapi.Booking, error)
	SlotDates(ctx context.Context, from, to time.Time) ([]shopapi.SlotDate, error)
}

// SettledFunc is invoked after any successful mutation so callers can
// refresh whatever they derive from the booking list.
type SettledFunc func(ctx context.Context, booking *shopapi.Booking)

// Workflow orchestrates the selection state machine against the shop
// service. It holds no per-session state itself; callers pass the State in.
type Workflow struct {
	api       ShopAPI
	logger    *logging.Logger
	metrics   *metrics.BookingMetrics
	onSettled SettledFunc
	now       func() time.Time
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithMetrics attaches booking metrics.
func WithMetrics(m *metrics.BookingMetrics) WorkflowOption {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// WithOnSettled registers the callback fired after successful mutations.
func WithOnSettled(fn SettledFunc) WorkflowOption {
	return func(w *Workflow) {
		w.onSettled = fn
	}
}

// WithClock overrides the workflow's time source.
func WithClock(fn func() time.Time) WorkflowOption {
	return func(w *Workflow) {
		if fn != nil {
			w.now = fn
		}
	}
}

// NewWorkflow creates a booking workflow backed by the given shop client.
func NewWorkflow(api ShopAPI, logger *logging.Logger, opts ...WorkflowOption) *Workflow {
	if logger == nil {
		logger = logging.Default()
	}
	w := &Workflow{api: api, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LoadSlots fetches and partitions the slots for the selected date. A fetch
// failure empties both buckets instead of propagating: the customer sees "no
// slots available" and the error is logged here.
func (w *Workflow) LoadSlots(ctx context.Context, st *State) {
	if st.Date == nil {
		return
	}
	token := st.NextSlotToken()
	start := time.Now()
	slots, err := w.api.SlotsByDate(ctx, *st.Date)
	w.metrics.ObserveUpstreamLatency("slots", time.Since(start).Seconds())
	if err != nil {
		w.logger.Error("slot fetch failed",
			"date", st.Date.Format(calendar.DateFormat),
			"error", err,
		)
		w.metrics.ObserveSlotFetch("error")
		st.ClearSlots(token)
		return
	}
	w.metrics.ObserveSlotFetch("ok")
	if !st.ApplySlots(token, slots) {
		w.logger.Debug("discarded stale slot fetch", "token", token)
	}
}

// LoadTechnicians fetches technician availability and the booked-technician
// set for the selected (date, slot) pair, issuing both requests in parallel.
// If either date or slot is unselected the technician view is cleared and no
// fetch happens. A selected technician found in the booked set is dropped.
func (w *Workflow) LoadTechnicians(ctx context.Context, st *State) {
	if st.Date == nil || st.Slot == nil {
		st.ClearTechnicians()
		return
	}
	date, slotID := *st.Date, st.Slot.ID
	token := st.NextTechnicianToken()

	var (
		wg        sync.WaitGroup
		avail     []shopapi.TechnicianAvailability
		bookedIDs []int64
		availErr  error
		bookedErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		avail, availErr = w.api.TechnicianAvailability(ctx, date, slotID)
	}()
	go func() {
		defer wg.Done()
		bookedIDs, bookedErr = w.api.BookedTechnicians(ctx, date, slotID)
	}()
	wg.Wait()

	if availErr != nil || bookedErr != nil {
		w.logger.Error("technician fetch failed",
			"date", date.Format(calendar.DateFormat),
			"slot_id", slotID,
			"availability_error", availErr,
			"booked_error", bookedErr,
		)
		st.ClearTechnicians()
		return
	}
	if !st.ApplyTechnicians(token, avail, bookedIDs) {
		w.logger.Debug("discarded stale technician fetch", "token", token)
	}
}

// LoadBlockedDates fetches the month's open/closed flags and installs the
// inverted overlay on the state. Reschedule flow only; failures leave the
// previous overlay in place.
func (w *Workflow) LoadBlockedDates(ctx context.Context, st *State, month time.Time) error {
	from, to := calendar.MonthBounds(month)
	dates, err := w.api.SlotDates(ctx, from, to)
	if err != nil {
		w.logger.Error("blocked date fetch failed",
			"month", month.Format("2006-01"),
			"error", err,
		)
		return fmt.Errorf("booking: load blocked dates: %w", err)
	}
	overlay := make(calendar.BlockedDates, len(dates))
	for _, d := range dates {
		if !d.Open {
			overlay[d.Date] = true
		}
	}
	st.Blocked = overlay
	st.BlockedMonth = month.Format("2006-01")
	st.BlockedAt = w.now()
	return nil
}

// Submit runs the full submission path: precondition validation, the
// booked-technician re-check, then the strategy's network call. On success
// the slot and technician selections are cleared (the date survives) and the
// booked set is refreshed so the new booking is visible immediately. The
// state machine always lands back in PhaseIdle, success or failure.
func (w *Workflow) Submit(ctx context.Context, st *State, strategy SubmitStrategy, token string) (*shopapi.Booking, error) {
	st.Phase = PhaseValidating
	defer func() { st.Phase = PhaseIdle }()

	if err := w.validate(st, strategy); err != nil {
		w.metrics.ObserveSubmission(strategy.Name(), "invalid")
		return nil, err
	}

	// Final availability guard: the picker's view may be stale by the time
	// the customer clicks submit.
	date, slotID := *st.Date, st.Slot.ID
	bookedIDs, err := w.api.BookedTechnicians(ctx, date, slotID)
	if err != nil {
		w.logger.Error("pre-submit booked check failed", "error", err)
		w.metrics.ObserveSubmission(strategy.Name(), "failed")
		return nil, fmt.Errorf("booking: availability check: %w", err)
	}
	st.BookedIDs = bookedIDs
	if st.TechnicianBooked(st.Technician.ID) {
		st.Technician = nil
		w.metrics.ObserveSubmission(strategy.Name(), "taken")
		return nil, ErrTechnicianTaken
	}

	st.Phase = PhaseSubmitting
	start := time.Now()
	booking, err := strategy.Submit(ctx, w.api, token, st)
	w.metrics.ObserveUpstreamLatency("submit", time.Since(start).Seconds())
	if err != nil {
		w.metrics.ObserveSubmission(strategy.Name(), "failed")
		return nil, err
	}
	w.metrics.ObserveSubmission(strategy.Name(), "succeeded")

	st.Slot = nil
	st.Technician = nil
	if refreshed, rerr := w.api.BookedTechnicians(ctx, date, slotID); rerr == nil {
		st.BookedIDs = refreshed
	} else {
		w.logger.Warn("post-submit booked refresh failed", "error", rerr)
	}

	w.logger.Info("booking settled",
		"flow", strategy.Name(),
		"booking_id", booking.ID,
		"status", booking.Status,
	)
	if w.onSettled != nil {
		w.onSettled(ctx, booking)
	}
	return booking, nil
}

func (w *Workflow) validate(st *State, strategy SubmitStrategy) error {
	if st.Date == nil {
		return &ValidationError{Field: "date", Message: "please select a date"}
	}
	if st.Slot == nil || st.Slot.ID == 0 {
		return &ValidationError{Field: "slot", Message: "please select a time slot"}
	}
	if st.Technician == nil || st.Technician.ID == 0 {
		return &ValidationError{Field: "technician", Message: "please select a technician"}
	}
	return strategy.Validate(st)
}
