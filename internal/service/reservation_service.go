package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"consultorio/internal/db"
	"consultorio/internal/entities"
	apperrors "consultorio/internal/errors"
	"consultorio/internal/metrics"
	"consultorio/internal/repository"

	"github.com/rs/zerolog"
)

const (
	statusConfirmed = "confirmed"
	statusCancelled = "cancelled"
)

type ReservationService struct {
	Store  ReservationStore
	Slots  AvailabilityStore
	sender EmailSender
	logger *zerolog.Logger
}

func NewReservationService(store ReservationStore, slots AvailabilityStore, sender EmailSender, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		Store:  store,
		Slots:  slots,
		sender: sender,
		logger: logger,
	}
}

// CreateReservation books a calendar-dated slot. The weekly slot must exist
// and be available, and no reservation may already hold the exact
// (day_of_week, hour, reservation_date) triple. The slot check and the
// insert are not one transaction; the unique constraint at the store level
// closes the race between two identical concurrent requests.
func (s *ReservationService) CreateReservation(ctx context.Context, req entities.ReservationRequest) (*entities.ReservationResponse, error) {
	slot, err := s.Slots.GetAvailableSlot(ctx, req.DayOfWeek, req.Hour)
	if err != nil {
		return nil, fmt.Errorf("internal error checking availability: %w", err)
	}
	if slot == nil {
		metrics.IncReservationRejected("slot_not_available")
		return nil, apperrors.ErrSlotNotAvailable(req.DayOfWeek, req.Hour)
	}

	existing, err := s.Store.GetReservationForSlotDate(ctx, req.DayOfWeek, req.Hour, req.ReservationDate)
	if err != nil {
		return nil, fmt.Errorf("internal error checking existing reservations: %w", err)
	}
	if existing != nil {
		metrics.IncReservationRejected("already_reserved")
		return nil, apperrors.ErrSlotAlreadyReserved(req.ReservationDate)
	}

	reservation := &db.Reservation{
		DayOfWeek:       req.DayOfWeek,
		Hour:            req.Hour,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ReservationDate: req.ReservationDate,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Store.CreateReservation(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrDuplicateReservation) {
			metrics.IncReservationRejected("already_reserved")
			return nil, apperrors.ErrSlotAlreadyReserved(req.ReservationDate)
		}
		s.logger.Error().Err(err).Msg("error creating reservation in repository")
		return nil, err
	}

	metrics.IncReservationCreated()
	s.logger.Info().
		Int("id", reservation.ID).
		Int("day_of_week", reservation.DayOfWeek).
		Int("hour", reservation.Hour).
		Time("reservation_date", reservation.ReservationDate).
		Msg("reservation created")

	resp := reservationResponse(*reservation)
	s.sender.SendReservationEmail(resp, statusConfirmed)
	return &resp, nil
}

// ListReservations returns every reservation ordered by reservation_date,
// then hour.
func (s *ReservationService) ListReservations(ctx context.Context) ([]entities.ReservationResponse, error) {
	reservations, err := s.Store.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("internal error listing reservations: %w", err)
	}
	responses := make([]entities.ReservationResponse, 0, len(reservations))
	for _, res := range reservations {
		responses = append(responses, reservationResponse(res))
	}
	return responses, nil
}

// CancelReservation deletes the reservation with the given id. The related
// weekly slot is untouched; availability and dated reservations are
// independent records.
func (s *ReservationService) CancelReservation(ctx context.Context, id int) error {
	reservation, err := s.Store.GetReservationByID(ctx, id)
	if err != nil {
		return fmt.Errorf("internal error looking up reservation: %w", err)
	}
	if reservation == nil {
		return apperrors.ErrReservationNotFound(id)
	}

	if err := s.Store.DeleteReservation(ctx, id); err != nil {
		s.logger.Error().Err(err).Int("id", id).Msg("error deleting reservation")
		return err
	}

	metrics.IncReservationCancelled()
	s.logger.Info().Int("id", id).Msg("reservation cancelled")

	s.sender.SendReservationEmail(reservationResponse(*reservation), statusCancelled)
	return nil
}

func reservationResponse(res db.Reservation) entities.ReservationResponse {
	return entities.ReservationResponse{
		ID:              res.ID,
		DayOfWeek:       res.DayOfWeek,
		Hour:            res.Hour,
		ClientName:      res.ClientName,
		ClientEmail:     res.ClientEmail,
		ReservationDate: res.ReservationDate,
		CreatedAt:       res.CreatedAt,
	}
}
