// Package handlers exposes the booking workflow to the web front end.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arcticauto/booking-gateway/internal/booking"
	"github.com/arcticauto/booking-gateway/internal/shopapi"
	"github.com/arcticauto/booking-gateway/pkg/logging"
)

// SessionHeader carries the booking session ID between front end and gateway.
const SessionHeader = "X-Session-Id"

const genericFailureMessage = "Something went wrong, please try again."

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeWorkflowError maps workflow failures onto HTTP responses. Validation
// and the technician-taken race are expected outcomes with corrective
// messages; upstream rejections surface the shop service's message verbatim
// when present, otherwise a generic fallback.
func writeWorkflowError(w http.ResponseWriter, logger *logging.Logger, err error) {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		writeMessage(w, http.StatusUnprocessableEntity, verr.Message)
		return
	}
	if errors.Is(err, booking.ErrTechnicianTaken) {
		writeMessage(w, http.StatusConflict, "That technician was just booked for this slot. Please pick another technician.")
		return
	}
	var apiErr *shopapi.APIError
	if errors.As(err, &apiErr) {
		writeUpstreamError(w, err)
		return
	}
	logger.Error("booking workflow failed", "error", err)
	writeMessage(w, http.StatusBadGateway, genericFailureMessage)
}
