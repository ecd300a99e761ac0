package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"consultorio/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetReservationsStartingBetween returns reservations whose reservation_date
// falls within [from, to), ordered by date then hour.
func (r *JobRepository) GetReservationsStartingBetween(ctx context.Context, from, to time.Time) ([]db.Reservation, error) {
	query := `
		SELECT id, day_of_week, hour, client_name, client_email, reservation_date, created_at
		FROM reservations
		WHERE reservation_date >= $1 AND reservation_date < $2
		ORDER BY reservation_date, hour`

	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := rows.Scan(&res.ID, &res.DayOfWeek, &res.Hour, &res.ClientName, &res.ClientEmail, &res.ReservationDate, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning upcoming reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return reservations, nil
}
