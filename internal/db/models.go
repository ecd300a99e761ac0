package db

import "time"

type AvailabilitySlot struct {
	ID          int
	DayOfWeek   int // 0=Monday, 6=Sunday
	Hour        int // 0-23
	IsAvailable bool
}

type Reservation struct {
	ID              int
	DayOfWeek       int
	Hour            int
	ClientName      string
	ClientEmail     string
	ReservationDate time.Time
	CreatedAt       time.Time
}
