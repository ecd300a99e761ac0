package entities

import "time"

type ReservationRequest struct {
	DayOfWeek       int       `json:"day_of_week"`
	Hour            int       `json:"hour"`
	ClientName      string    `json:"client_name"`
	ClientEmail     string    `json:"client_email"`
	ReservationDate time.Time `json:"reservation_date"`
}

type ReservationResponse struct {
	ID              int       `json:"id"`
	DayOfWeek       int       `json:"day_of_week"`
	Hour            int       `json:"hour"`
	ClientName      string    `json:"client_name"`
	ClientEmail     string    `json:"client_email"`
	ReservationDate time.Time `json:"reservation_date"`
	CreatedAt       time.Time `json:"created_at"`
}
