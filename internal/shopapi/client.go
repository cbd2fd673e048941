// Package shopapi is the HTTP+JSON client for the shop's external REST
// service. The service owns every domain entity (slots, technicians,
// bookings, blocked dates); the gateway never caches its data beyond the
// current request.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arcticauto/booking-gateway/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Client is a shop service API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a shop service client rooted at baseURL.
func NewClient(baseURL string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SlotsByDate returns every slot open on the given date, in server order.
func (c *Client) SlotsByDate(ctx context.Context, date time.Time) ([]TimeSlot, error) {
	q := url.Values{"date": {date.Format(DateFormat)}}
	var out []TimeSlot
	if err := c.do(ctx, http.MethodGet, "/timeslots", q, "", nil, &out); err != nil {
		return nil, fmt.Errorf("shopapi: slots by date: %w", err)
	}
	return out, nil
}

// BookedTechnicians returns the IDs of technicians already committed to the
// given slot and date. This is the authoritative guard used right before
// submission.
func (c *Client) BookedTechnicians(ctx context.Context, date time.Time, slotID int64) ([]int64, error) {
	q := url.Values{
		"date":       {date.Format(DateFormat)},
		"timeSlotId": {strconv.FormatInt(slotID, 10)},
	}
	var out []int64
	if err := c.do(ctx, http.MethodGet, "/technicians/booked", q, "", nil, &out); err != nil {
		return nil, fmt.Errorf("shopapi: booked technicians: %w", err)
	}
	return out, nil
}

// TechnicianAvailability returns technicians and their availability for the
// given (date, slot) pair, in server order.
func (c *Client) TechnicianAvailability(ctx context.Context, date time.Time, slotID int64) ([]TechnicianAvailability, error) {
	q := url.Values{
		"date":       {date.Format(DateFormat)},
		"timeSlotId": {strconv.FormatInt(slotID, 10)},
	}
	var out []TechnicianAvailability
	if err := c.do(ctx, http.MethodGet, "/technicians/availability", q, "", nil, &out); err != nil {
		return nil, fmt.Errorf("shopapi: technician availability: %w", err)
	}
	return out, nil
}

// CreateBooking creates a booking on behalf of the customer identified by token.
func (c *Client) CreateBooking(ctx context.Context, token string, req CreateBookingRequest) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookingByID fetches a single booking, used as reschedule context.
func (c *Client) BookingByID(ctx context.Context, token string, id int64) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+strconv.FormatInt(id, 10), nil, token, nil, &out); err != nil {
		return nil, fmt.Errorf("shopapi: booking by id: %w", err)
	}
	return &out, nil
}

// RescheduleBooking moves an existing booking to a new slot/technician/date.
func (c *Client) RescheduleBooking(ctx context.Context, token string, id int64, req RescheduleRequest) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodPut, "/bookings/"+strconv.FormatInt(id, 10)+"/reschedule", nil, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelBooking cancels an existing booking.
func (c *Client) CancelBooking(ctx context.Context, token string, id int64) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodPut, "/bookings/"+strconv.FormatInt(id, 10)+"/cancel", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SlotDates returns the shop open/closed flags for every date in [from, to].
// The reschedule calendar inverts Open into its blocked-date overlay.
func (c *Client) SlotDates(ctx context.Context, from, to time.Time) ([]SlotDate, error) {
	q := url.Values{
		"from": {from.Format(DateFormat)},
		"to":   {to.Format(DateFormat)},
	}
	var out []SlotDate
	if err := c.do(ctx, http.MethodGet, "/slot-dates", q, "", nil, &out); err != nil {
		return nil, fmt.Errorf("shopapi: slot dates: %w", err)
	}
	return out, nil
}

// BookingsByCustomer returns all bookings for a customer, in server order.
func (c *Client) BookingsByCustomer(ctx context.Context, token string, customerID int64) ([]Booking, error) {
	var out []Booking
	path := "/customers/" + strconv.FormatInt(customerID, 10) + "/bookings"
	if err := c.do(ctx, http.MethodGet, path, nil, token, nil, &out); err != nil {
		return nil, fmt.Errorf("shopapi: bookings by customer: %w", err)
	}
	return out, nil
}

// errorEnvelope is the error body shape the shop service returns.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env errorEnvelope
		if json.Unmarshal(respBody, &env) == nil {
			if env.Message != "" {
				apiErr.Message = env.Message
			} else if env.Error != "" {
				apiErr.Message = env.Error
			}
		}
		if apiErr.Message == "" {
			msg := strings.TrimSpace(string(respBody))
			if len(msg) > 300 {
				msg = msg[:300]
			}
			apiErr.Message = msg
		}
		c.logger.Warn("shop service rejected request",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
