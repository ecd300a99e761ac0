package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"consultorio/internal/db"
)

type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(database *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: database}
}

func (r *AvailabilityRepository) ListSlots(ctx context.Context) ([]db.AvailabilitySlot, error) {
	query := `SELECT id, day_of_week, hour, is_available FROM availability`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying availability slots: %w", err)
	}
	defer rows.Close()

	var slots []db.AvailabilitySlot
	for rows.Next() {
		var s db.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.DayOfWeek, &s.Hour, &s.IsAvailable); err != nil {
			return nil, fmt.Errorf("error scanning availability slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating availability rows: %w", err)
	}

	return slots, nil
}

// GetAvailableSlot returns the slot for (dayOfWeek, hour) only if it is marked
// available. Returns nil when the slot is absent or disabled.
func (r *AvailabilityRepository) GetAvailableSlot(ctx context.Context, dayOfWeek, hour int) (*db.AvailabilitySlot, error) {
	var s db.AvailabilitySlot
	query := `SELECT id, day_of_week, hour, is_available FROM availability WHERE day_of_week = $1 AND hour = $2 AND is_available = TRUE`
	err := r.DB.QueryRowContext(ctx, query, dayOfWeek, hour).Scan(&s.ID, &s.DayOfWeek, &s.Hour, &s.IsAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying available slot: %w", err)
	}
	return &s, nil
}

// UpsertSlot updates is_available for an existing (day_of_week, hour) record
// or inserts a new one. The slot is populated with its stored id on return.
func (r *AvailabilityRepository) UpsertSlot(ctx context.Context, slot *db.AvailabilitySlot) error {
	return upsertSlot(ctx, r.DB, slot)
}

// BulkUpsertSlots applies the upsert rule to each slot in input order inside
// a single transaction, then re-reads every touched key so the returned
// records reflect the committed state (last write wins for duplicate keys).
func (r *AvailabilityRepository) BulkUpsertSlots(ctx context.Context, slots []db.AvailabilitySlot) ([]db.AvailabilitySlot, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting bulk upsert transaction: %w", err)
	}
	defer tx.Rollback()

	results := make([]db.AvailabilitySlot, len(slots))
	for i := range slots {
		s := slots[i]
		if err := upsertSlot(ctx, tx, &s); err != nil {
			return nil, err
		}
		results[i] = s
	}

	// Duplicate keys within one batch: earlier entries must report the final
	// state, so refresh every result from the transaction before committing.
	for i := range results {
		query := `SELECT id, day_of_week, hour, is_available FROM availability WHERE day_of_week = $1 AND hour = $2`
		err := tx.QueryRowContext(ctx, query, results[i].DayOfWeek, results[i].Hour).
			Scan(&results[i].ID, &results[i].DayOfWeek, &results[i].Hour, &results[i].IsAvailable)
		if err != nil {
			return nil, fmt.Errorf("error refreshing upserted slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing bulk upsert: %w", err)
	}
	return results, nil
}

// CountSlots returns the number of availability records.
func (r *AvailabilityRepository) CountSlots(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM availability`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting availability slots: %w", err)
	}
	return count, nil
}

// SeedDefaultSlots inserts the full 7x24 grid in one transaction, available
// for business hours (9-17 inclusive). Callers must check CountSlots first.
func (r *AvailabilityRepository) SeedDefaultSlots(ctx context.Context) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO availability (day_of_week, hour, is_available) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("error preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			available := hour >= 9 && hour <= 17
			if _, err := stmt.ExecContext(ctx, day, hour, available); err != nil {
				return fmt.Errorf("error seeding slot (day %d, hour %d): %w", day, hour, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing seed: %w", err)
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx so the upsert branch logic can
// run standalone or inside the bulk transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsertSlot(ctx context.Context, q querier, slot *db.AvailabilitySlot) error {
	var existingID int
	lookup := `SELECT id FROM availability WHERE day_of_week = $1 AND hour = $2`
	err := q.QueryRowContext(ctx, lookup, slot.DayOfWeek, slot.Hour).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("error looking up availability slot: %w", err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		insert := `INSERT INTO availability (day_of_week, hour, is_available) VALUES ($1, $2, $3) RETURNING id`
		if err := q.QueryRowContext(ctx, insert, slot.DayOfWeek, slot.Hour, slot.IsAvailable).Scan(&slot.ID); err != nil {
			return fmt.Errorf("error inserting availability slot: %w", err)
		}
		return nil
	}

	update := `UPDATE availability SET is_available = $1 WHERE id = $2 RETURNING id`
	if err := q.QueryRowContext(ctx, update, slot.IsAvailable, existingID).Scan(&slot.ID); err != nil {
		return fmt.Errorf("error updating availability slot: %w", err)
	}
	return nil
}
