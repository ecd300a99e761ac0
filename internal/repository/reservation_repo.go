package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"consultorio/internal/db"

	"github.com/lib/pq"
)

// ErrDuplicateReservation is returned when an insert hits the unique
// constraint on (day_of_week, hour, reservation_date).
var ErrDuplicateReservation = errors.New("reservation already exists for slot and date")

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(day_of_week, hour, client_name, client_email, reservation_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		res.DayOfWeek,
		res.Hour,
		res.ClientName,
		res.ClientEmail,
		res.ReservationDate,
		res.CreatedAt,
	).Scan(&res.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReservation
		}
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

// GetReservationForSlotDate returns the reservation matching the exact
// (day_of_week, hour, reservation_date) triple, or nil when none exists.
func (r *ReservationRepository) GetReservationForSlotDate(ctx context.Context, dayOfWeek, hour int, date time.Time) (*db.Reservation, error) {
	var res db.Reservation
	query := `
		SELECT id, day_of_week, hour, client_name, client_email, reservation_date, created_at
		FROM reservations
		WHERE day_of_week = $1 AND hour = $2 AND reservation_date = $3`
	err := r.DB.QueryRowContext(ctx, query, dayOfWeek, hour, date).Scan(
		&res.ID, &res.DayOfWeek, &res.Hour, &res.ClientName, &res.ClientEmail, &res.ReservationDate, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying reservation for slot and date: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) ListReservations(ctx context.Context) ([]db.Reservation, error) {
	query := `
		SELECT id, day_of_week, hour, client_name, client_email, reservation_date, created_at
		FROM reservations
		ORDER BY reservation_date, hour`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := rows.Scan(&res.ID, &res.DayOfWeek, &res.Hour, &res.ClientName, &res.ClientEmail, &res.ReservationDate, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservation rows: %w", err)
	}

	return reservations, nil
}

// GetReservationByID returns the reservation with the given id, or nil when
// no record exists.
func (r *ReservationRepository) GetReservationByID(ctx context.Context, id int) (*db.Reservation, error) {
	var res db.Reservation
	query := `
		SELECT id, day_of_week, hour, client_name, client_email, reservation_date, created_at
		FROM reservations WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.DayOfWeek, &res.Hour, &res.ClientName, &res.ClientEmail, &res.ReservationDate, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying reservation by id: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) DeleteReservation(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting reservation: %w", err)
	}
	return nil
}
