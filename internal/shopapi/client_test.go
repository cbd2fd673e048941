package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSlotsByDate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/timeslots" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2026-09-15" {
			t.Fatalf("unexpected date query %q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"timeSlotId": 5, "startTime": "09:00", "endTime": "10:00"},
			{"timeSlotId": 6, "startTime": "14:00", "endTime": "15:00"},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, nil)
	slots, err := c.SlotsByDate(context.Background(), time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SlotsByDate error: %v", err)
	}
	if len(slots) != 2 || slots[0].ID != 5 || slots[0].StartTime != "09:00" {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestBookedTechniciansQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timeSlotId"); got != "5" {
			t.Fatalf("unexpected timeSlotId %q", got)
		}
		_ = json.NewEncoder(w).Encode([]int64{3, 7})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, nil)
	ids, err := c.BookedTechnicians(context.Background(), time.Now(), 5)
	if err != nil {
		t.Fatalf("BookedTechnicians error: %v", err)
	}
	if len(ids) != 2 || ids[1] != 7 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestCreateBookingSendsTokenAndPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bookings" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode req: %v", err)
		}
		if req.CustomerID != 12 || req.TechnicianID != 7 || req.TimeSlotID != 5 || req.Notes != "" {
			t.Fatalf("unexpected payload: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(Booking{ID: 99, Status: "Pending"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, nil)
	booking, err := c.CreateBooking(context.Background(), "tok-1", CreateBookingRequest{
		CustomerID:   12,
		TechnicianID: 7,
		TimeSlotID:   5,
	})
	if err != nil {
		t.Fatalf("CreateBooking error: %v", err)
	}
	if booking.ID != 99 || booking.Status != "Pending" {
		t.Fatalf("unexpected booking: %+v", booking)
	}
}

func TestServerMessagePreservedVerbatim(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Technician is already booked for this slot."})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, nil)
	_, err := c.CreateBooking(context.Background(), "tok", CreateBookingRequest{CustomerID: 1, TechnicianID: 2, TimeSlotID: 3})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Technician is already booked for this slot." {
		t.Fatalf("expected verbatim server message, got %q", apiErr.Message)
	}
}

func TestErrorWithoutEnvelopeFallsBackToBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, nil)
	_, err := c.SlotsByDate(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Message != "upstream exploded" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestRescheduleBooking(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/bookings/42/reschedule" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req RescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode req: %v", err)
		}
		if req.TimeSlotID != 8 || req.TechnicianID != 2 || req.RescheduledDate != "2026-10-01" {
			t.Fatalf("unexpected payload: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(Booking{ID: 42, Status: "Rescheduled"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, nil)
	booking, err := c.RescheduleBooking(context.Background(), "tok", 42, RescheduleRequest{
		TimeSlotID:      8,
		TechnicianID:    2,
		RescheduledDate: "2026-10-01",
	})
	if err != nil {
		t.Fatalf("RescheduleBooking error: %v", err)
	}
	if booking.Status != "Rescheduled" {
		t.Fatalf("unexpected booking: %+v", booking)
	}
}

func TestSlotDatesRange(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") != "2026-09-01" || q.Get("to") != "2026-09-30" {
			t.Fatalf("unexpected range %s..%s", q.Get("from"), q.Get("to"))
		}
		_ = json.NewEncoder(w).Encode([]SlotDate{
			{Date: "2026-09-07", Open: false},
			{Date: "2026-09-08", Open: true},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, nil)
	dates, err := c.SlotDates(context.Background(),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SlotDates error: %v", err)
	}
	if len(dates) != 2 || dates[0].Open {
		t.Fatalf("unexpected dates: %+v", dates)
	}
}
