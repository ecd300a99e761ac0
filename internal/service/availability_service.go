package service

import (
	"context"
	"fmt"

	"consultorio/internal/db"
	"consultorio/internal/entities"

	"github.com/rs/zerolog"
)

type AvailabilityService struct {
	Store  AvailabilityStore
	logger *zerolog.Logger
}

func NewAvailabilityService(store AvailabilityStore, logger *zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{Store: store, logger: logger}
}

func (s *AvailabilityService) ListSlots(ctx context.Context) ([]entities.SlotResponse, error) {
	slots, err := s.Store.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("internal error listing slots: %w", err)
	}
	return slotResponses(slots), nil
}

// UpsertSlot updates is_available for an existing slot with the same
// (day_of_week, hour) key, or creates one. Repeated calls with the same
// inputs converge to the same stored state.
func (s *AvailabilityService) UpsertSlot(ctx context.Context, req entities.SlotRequest) (*entities.SlotResponse, error) {
	slot := db.AvailabilitySlot{
		DayOfWeek:   req.DayOfWeek,
		Hour:        req.Hour,
		IsAvailable: req.IsAvailable,
	}
	if err := s.Store.UpsertSlot(ctx, &slot); err != nil {
		s.logger.Error().Err(err).Int("day_of_week", req.DayOfWeek).Int("hour", req.Hour).Msg("upsert slot failed")
		return nil, fmt.Errorf("internal error upserting slot: %w", err)
	}
	resp := slotResponse(slot)
	return &resp, nil
}

// BulkUpsertSlots applies the upsert rule to each entry in input order and
// commits once. Results come back in input order, reflecting the committed
// state (the last entry wins for duplicate keys within one batch).
func (s *AvailabilityService) BulkUpsertSlots(ctx context.Context, reqs []entities.SlotRequest) ([]entities.SlotResponse, error) {
	slots := make([]db.AvailabilitySlot, len(reqs))
	for i, req := range reqs {
		slots[i] = db.AvailabilitySlot{
			DayOfWeek:   req.DayOfWeek,
			Hour:        req.Hour,
			IsAvailable: req.IsAvailable,
		}
	}
	updated, err := s.Store.BulkUpsertSlots(ctx, slots)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(reqs)).Msg("bulk upsert failed")
		return nil, fmt.Errorf("internal error bulk upserting slots: %w", err)
	}
	return slotResponses(updated), nil
}

func slotResponse(s db.AvailabilitySlot) entities.SlotResponse {
	return entities.SlotResponse{
		ID:          s.ID,
		DayOfWeek:   s.DayOfWeek,
		Hour:        s.Hour,
		IsAvailable: s.IsAvailable,
	}
}

func slotResponses(slots []db.AvailabilitySlot) []entities.SlotResponse {
	responses := make([]entities.SlotResponse, 0, len(slots))
	for _, s := range slots {
		responses = append(responses, slotResponse(s))
	}
	return responses
}
