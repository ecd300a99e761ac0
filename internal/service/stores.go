package service

import (
	"context"
	"time"

	"consultorio/internal/db"
	"consultorio/internal/entities"
)

// AvailabilityStore is the persistence surface the availability manager
// needs. Implemented by repository.AvailabilityRepository.
type AvailabilityStore interface {
	ListSlots(ctx context.Context) ([]db.AvailabilitySlot, error)
	GetAvailableSlot(ctx context.Context, dayOfWeek, hour int) (*db.AvailabilitySlot, error)
	UpsertSlot(ctx context.Context, slot *db.AvailabilitySlot) error
	BulkUpsertSlots(ctx context.Context, slots []db.AvailabilitySlot) ([]db.AvailabilitySlot, error)
}

// ReservationStore is the persistence surface the reservation manager needs.
// Implemented by repository.ReservationRepository.
type ReservationStore interface {
	CreateReservation(ctx context.Context, res *db.Reservation) error
	GetReservationForSlotDate(ctx context.Context, dayOfWeek, hour int, date time.Time) (*db.Reservation, error)
	ListReservations(ctx context.Context) ([]db.Reservation, error)
	GetReservationByID(ctx context.Context, id int) (*db.Reservation, error)
	DeleteReservation(ctx context.Context, id int) error
}

// UpcomingReservationStore feeds the reminder job.
// Implemented by repository.JobRepository.
type UpcomingReservationStore interface {
	GetReservationsStartingBetween(ctx context.Context, from, to time.Time) ([]db.Reservation, error)
}

// EmailSender delivers reservation lifecycle notifications.
type EmailSender interface {
	SendReservationEmail(reservation entities.ReservationResponse, status string)
}
