package fieldapi

import (
	"fmt"
	"strings"
)

// defaultErrorMessage is shown when the server gives no message of its own.
const defaultErrorMessage = "request failed"

// ConflictDetail describes the existing booking that blocks a requested slot.
type ConflictDetail struct {
	BookingDate  string `json:"bookingDate"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	CustomerName string `json:"customerName"`
	BookingID    int64  `json:"bookingId"`
}

// ConflictError is returned when the server rejects a booking because the
// slot overlaps an existing booking. The conflict check is authoritative
// server-side; callers surface the detail verbatim and never retry.
type ConflictError struct {
	Message  string
	Conflict ConflictDetail
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("fieldapi: booking conflict with #%d (%s %s-%s, %s)",
		e.Conflict.BookingID, e.Conflict.BookingDate, e.Conflict.StartTime, e.Conflict.EndTime, e.Conflict.CustomerName)
}

// ValidationError carries field-level messages from a rejected request.
type ValidationError struct {
	Message string
	Errors  []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "fieldapi: validation failed: " + e.Message
	}
	return "fieldapi: validation failed: " + strings.Join(e.Errors, "; ")
}

// Combined joins the field-level messages into one operator-facing string.
func (e *ValidationError) Combined() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return strings.Join(e.Errors, "; ")
}

// APIError is any other non-success response from the platform.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fieldapi: status %d: %s", e.StatusCode, e.Message)
}

// errorBody is the superset of the platform's error payload shapes.
type errorBody struct {
	Message  string          `json:"message"`
	Conflict *ConflictDetail `json:"conflict,omitempty"`
	Errors   []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// asTypedError interprets a decoded error payload by shape: a conflict object
// wins over a validation list, which wins over the generic message.
func (b errorBody) asTypedError(statusCode int) error {
	if b.Conflict != nil {
		return &ConflictError{Message: b.Message, Conflict: *b.Conflict}
	}
	if len(b.Errors) > 0 {
		msgs := make([]string, 0, len(b.Errors))
		for _, e := range b.Errors {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		return &ValidationError{Message: b.Message, Errors: msgs}
	}
	msg := b.Message
	if msg == "" {
		msg = defaultErrorMessage
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}
