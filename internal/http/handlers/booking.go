package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arcticauto/booking-gateway/internal/booking"
	"github.com/arcticauto/booking-gateway/internal/calendar"
	"github.com/arcticauto/booking-gateway/internal/http/middleware"
	"github.com/arcticauto/booking-gateway/internal/session"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
	"github.com/arcticauto/booking-gateway/pkg/logging"
)

// ShopService is the full shop client surface the handlers need: the
// workflow slice plus the booking-record reads and mutations the workflow
// itself does not orchestrate.
type ShopService interface {
	booking.ShopAPI
	BookingByID(ctx context.Context, token string, id int64) (*shopapi.Booking, error)
	CancelBooking(ctx context.Context, token string, id int64) (*shopapi.Booking, error)
	BookingsByCustomer(ctx context.Context, token string, customerID int64) ([]shopapi.Booking, error)
}

// BookingHandler drives the selection workflow over HTTP. Each request loads
// the session's state, applies one transition, and saves it back.
type BookingHandler struct {
	workflow   *booking.Workflow
	shop       ShopService
	sessions   session.SelectionStore
	logger     *logging.Logger
	blockedTTL time.Duration
	now        func() time.Time
}

// BookingHandlerOption configures a BookingHandler.
type BookingHandlerOption func(*BookingHandler)

// WithBlockedDatesTTL sets how long a fetched blocked-date overlay stays
// fresh before a calendar render triggers a refresh.
func WithBlockedDatesTTL(ttl time.Duration) BookingHandlerOption {
	return func(h *BookingHandler) {
		if ttl > 0 {
			h.blockedTTL = ttl
		}
	}
}

// NewBookingHandler creates the workflow handler.
func NewBookingHandler(workflow *booking.Workflow, shop ShopService, sessions session.SelectionStore, logger *logging.Logger, opts ...BookingHandlerOption) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &BookingHandler{
		workflow:   workflow,
		shop:       shop,
		sessions:   sessions,
		logger:     logger,
		blockedTTL: time.Minute,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the workflow routes. Lookups are public; submission
// requires an identified customer and is mounted separately by the router.
func (h *BookingHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/session", h.StartSession)
	r.Get("/calendar", h.Calendar)
	r.Post("/date", h.SelectDate)
	r.Post("/period", h.SelectPeriod)
	r.Post("/slot", h.SelectSlot)
	r.Post("/technician", h.SelectTechnician)
	return r
}

type startSessionRequest struct {
	Flow      booking.Flow `json:"flow"`
	BookingID int64        `json:"bookingId,omitempty"`
}

type sessionResponse struct {
	SessionID string         `json:"sessionId"`
	State     *booking.State `json:"state"`
}

// StartSession opens a fresh selection for either flow. Reschedule sessions
// are bound to an existing booking and preload the current month's
// blocked-date overlay.
func (h *BookingHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	flow := req.Flow
	if flow == "" {
		flow = booking.FlowCreate
	}
	if flow != booking.FlowCreate && flow != booking.FlowReschedule {
		writeMessage(w, http.StatusBadRequest, "unknown flow")
		return
	}
	if flow == booking.FlowReschedule && req.BookingID == 0 {
		writeMessage(w, http.StatusBadRequest, "bookingId is required for reschedule")
		return
	}

	st := booking.NewState(flow)
	st.BookingID = req.BookingID
	if flow == booking.FlowReschedule {
		if err := h.workflow.LoadBlockedDates(r.Context(), st, h.now()); err != nil {
			h.logger.Warn("starting reschedule session without blocked-date overlay", "error", err)
		}
	}

	sessionID := session.NewSessionID()
	if err := h.sessions.Save(r.Context(), sessionID, st); err != nil {
		h.logger.Error("failed to save session", "error", err)
		writeMessage(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID, State: st})
}

type calendarDay struct {
	Date         string `json:"date"`
	OutsideMonth bool   `json:"isOutsideMonth"`
	Selectable   bool   `json:"selectable"`
}

// Calendar returns the 42-cell grid for the requested month. For reschedule
// sessions the month's blocked-date overlay is refreshed first, so closed
// days render unselectable.
func (h *BookingHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	month := h.now()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "month must be formatted YYYY-MM")
			return
		}
		month = parsed
	}

	st, sessionID, err := h.loadSession(r)
	if err != nil && !errors.Is(err, errNoSession) {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var blocked calendar.BlockedDates
	if st != nil && st.Flow == booking.FlowReschedule {
		if !st.BlockedFresh(month, h.now(), h.blockedTTL) {
			if err := h.workflow.LoadBlockedDates(r.Context(), st, month); err == nil {
				h.saveSession(r, sessionID, st)
			}
		}
		blocked = st.Blocked
	}

	today := h.now()
	grid := calendar.MonthGrid(month)
	days := make([]calendarDay, 0, len(grid))
	for _, d := range grid {
		days = append(days, calendarDay{
			Date:         d.Date.Format(calendar.DateFormat),
			OutsideMonth: d.OutsideMonth,
			Selectable:   calendar.DaySelectable(d, today, blocked),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

type selectDateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// SelectDate picks a day and, when the pick is eligible, loads its slots.
// Ineligible days are a no-op: the state is returned unchanged and no slot
// fetch is issued.
func (h *BookingHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	st, sessionID, err := h.loadSession(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req selectDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	date, err := time.Parse(calendar.DateFormat, req.Date)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	if st.SelectDate(calendar.Day{Date: date}, h.now()) {
		h.workflow.LoadSlots(r.Context(), st)
		h.saveSession(r, sessionID, st)
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, State: st})
}

type selectPeriodRequest struct {
	Period booking.Period `json:"period"`
}

// SelectPeriod flips the AM/PM filter, clearing slot and technician picks.
func (h *BookingHandler) SelectPeriod(w http.ResponseWriter, r *http.Request) {
	st, sessionID, err := h.loadSession(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req selectPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Period != booking.PeriodAM && req.Period != booking.PeriodPM {
		writeMessage(w, http.StatusBadRequest, "period must be AM or PM")
		return
	}

	st.SelectPeriod(req.Period)
	h.saveSession(r, sessionID, st)
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, State: st})
}

type selectSlotRequest struct {
	SlotID int64 `json:"slotId"`
}

// SelectSlot picks a slot and loads technician availability for it.
func (h *BookingHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	st, sessionID, err := h.loadSession(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req selectSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if st.SelectSlot(req.SlotID, h.now()) {
		h.workflow.LoadTechnicians(r.Context(), st)
		h.saveSession(r, sessionID, st)
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, State: st})
}

type selectTechnicianRequest struct {
	TechnicianID int64 `json:"technicianId"`
}

// SelectTechnician picks a technician from the loaded availability list.
func (h *BookingHandler) SelectTechnician(w http.ResponseWriter, r *http.Request) {
	st, sessionID, err := h.loadSession(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req selectTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if st.SelectTechnician(req.TechnicianID) {
		h.saveSession(r, sessionID, st)
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, State: st})
}

type submitRequest struct {
	Notes string `json:"notes"`
}

type submitResponse struct {
	Booking *shopapi.Booking `json:"booking"`
	State   *booking.State   `json:"state"`
}

// Submit runs the submission path for the session's flow. Requires an
// identified customer; the customer's own token is forwarded upstream.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	st, sessionID, err := h.loadSession(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	claims, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "could not resolve your customer account, please sign in again")
		return
	}
	token, _ := middleware.BearerTokenFromContext(r.Context())

	var strategy booking.SubmitStrategy
	switch st.Flow {
	case booking.FlowReschedule:
		strategy = booking.RescheduleStrategy{BookingID: st.BookingID}
	default:
		strategy = booking.CreateStrategy{CustomerID: claims.CustomerID, Notes: req.Notes}
	}

	created, err := h.workflow.Submit(r.Context(), st, strategy, token)
	h.saveSession(r, sessionID, st)
	if err != nil {
		writeWorkflowError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Booking: created, State: st})
}

var errNoSession = errors.New("no active booking session, start one first")

func (h *BookingHandler) loadSession(r *http.Request) (*booking.State, string, error) {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		return nil, "", errNoSession
	}
	st, err := h.sessions.Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, "", errNoSession
		}
		return nil, "", err
	}
	return st, sessionID, nil
}

func (h *BookingHandler) saveSession(r *http.Request, sessionID string, st *booking.State) {
	if err := h.sessions.Save(r.Context(), sessionID, st); err != nil {
		h.logger.Error("failed to save session", "session_id", sessionID, "error", err)
	}
}
