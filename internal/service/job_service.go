package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type JobService struct {
	Store  UpcomingReservationStore
	sender EmailSender
	logger *zerolog.Logger
}

func NewJobService(store UpcomingReservationStore, sender EmailSender, logger *zerolog.Logger) *JobService {
	return &JobService{Store: store, sender: sender, logger: logger}
}

// SendUpcomingReminders emails a reminder for every reservation dated on the
// next calendar day. Meant to run once a day from cron; running it more
// often re-sends reminders, since no delivery state is recorded.
func (s *JobService) SendUpcomingReminders(ctx context.Context) error {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	reservations, err := s.Store.GetReservationsStartingBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("reminder job: failed to get upcoming reservations: %w", err)
	}

	if len(reservations) == 0 {
		s.logger.Info().Msg("reminder job: no reservations for tomorrow")
		return nil
	}

	s.logger.Info().Int("count", len(reservations)).Time("date", from).Msg("reminder job: sending reminders")
	for _, res := range reservations {
		s.sender.SendReservationEmail(reservationResponse(res), statusReminder)
	}
	return nil
}
