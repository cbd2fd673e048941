package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arcticauto/booking-gateway/internal/booking"
	"github.com/arcticauto/booking-gateway/internal/http/middleware"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
	"github.com/arcticauto/booking-gateway/pkg/logging"
)

// BookingsHandler serves the customer's booking list and per-booking
// actions. Every route requires an identified customer.
type BookingsHandler struct {
	shop   ShopService
	logger *logging.Logger
}

// NewBookingsHandler creates the booking list handler.
func NewBookingsHandler(shop ShopService, logger *logging.Logger) *BookingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingsHandler{shop: shop, logger: logger}
}

// Routes returns the booking record routes.
func (h *BookingsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{bookingID}", h.Get)
	r.Put("/{bookingID}/cancel", h.Cancel)
	return r
}

type historyItem struct {
	shopapi.Booking
	Icon string `json:"icon"`
}

type listResponse struct {
	Active  []shopapi.Booking `json:"active"`
	History []historyItem     `json:"history"`
}

// List returns the customer's bookings: active ones ordered Confirmed-first
// then nearest-first, history in server order with display icons.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "could not resolve your customer account")
		return
	}
	token, _ := middleware.BearerTokenFromContext(r.Context())

	bookings, err := h.shop.BookingsByCustomer(r.Context(), token, claims.CustomerID)
	if err != nil {
		h.logger.Error("failed to list bookings", "customer_id", claims.CustomerID, "error", err)
		writeUpstreamError(w, err)
		return
	}

	active, history := booking.SplitBookings(bookings)
	booking.SortActive(active)

	items := make([]historyItem, 0, len(history))
	for _, b := range history {
		items = append(items, historyItem{Booking: b, Icon: booking.Status(b.Status).Icon()})
	}
	writeJSON(w, http.StatusOK, listResponse{Active: active, History: items})
}

// Get returns one booking, used as read-only context for the reschedule view.
func (h *BookingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	token, _ := middleware.BearerTokenFromContext(r.Context())

	b, err := h.shop.BookingByID(r.Context(), token, id)
	if err != nil {
		h.logger.Error("failed to fetch booking", "booking_id", id, "error", err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Cancel cancels one booking.
func (h *BookingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	token, _ := middleware.BearerTokenFromContext(r.Context())

	b, err := h.shop.CancelBooking(r.Context(), token, id)
	if err != nil {
		h.logger.Error("failed to cancel booking", "booking_id", id, "error", err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func bookingID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "bookingID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("bookingID must be a positive integer")
	}
	return id, nil
}

// writeUpstreamError surfaces shop service rejections with their message
// verbatim, everything else as a generic gateway failure.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *shopapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode < 400 || apiErr.StatusCode > 499 {
			writeMessage(w, http.StatusBadGateway, genericFailureMessage)
			return
		}
		msg := apiErr.Message
		if msg == "" {
			msg = genericFailureMessage
		}
		writeMessage(w, apiErr.StatusCode, msg)
		return
	}
	writeMessage(w, http.StatusBadGateway, genericFailureMessage)
}
