package errors

import (
	"fmt"
	"net/http"
	"time"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for the domain errors the reservation flow can produce.
var (
	ErrSlotNotAvailable = func(dayOfWeek, hour int) *HTTPError {
		return NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Time slot not available: Day %d, Hour %d", dayOfWeek, hour))
	}
	ErrSlotAlreadyReserved = func(date time.Time) *HTTPError {
		return NewHTTPError(http.StatusConflict,
			fmt.Sprintf("Time slot already reserved for %s", date.Format("2006-01-02")))
	}
	ErrReservationNotFound = func(id int) *HTTPError {
		return NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("Reservation %d not found", id))
	}
)
