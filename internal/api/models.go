package api

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"consultorio/internal/entities"
)

const maxClientNameLength = 100

func validateSlotRequest(req entities.SlotRequest) error {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be between 0 and 6, got %d", req.DayOfWeek)
	}
	if req.Hour < 0 || req.Hour > 23 {
		return fmt.Errorf("hour must be between 0 and 23, got %d", req.Hour)
	}
	return nil
}

func validateReservationRequest(req entities.ReservationRequest) error {
	if err := validateSlotRequest(entities.SlotRequest{DayOfWeek: req.DayOfWeek, Hour: req.Hour}); err != nil {
		return err
	}
	if req.ClientName == "" {
		return fmt.Errorf("client_name must not be empty")
	}
	if utf8.RuneCountInString(req.ClientName) > maxClientNameLength {
		return fmt.Errorf("client_name must be at most %d characters", maxClientNameLength)
	}
	if _, err := mail.ParseAddress(req.ClientEmail); err != nil {
		return fmt.Errorf("client_email is not a valid email address")
	}
	if req.ReservationDate.IsZero() {
		return fmt.Errorf("reservation_date is required")
	}
	return nil
}
