package db

import "database/sql"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS availability (
	id SERIAL PRIMARY KEY,
	day_of_week INT NOT NULL,
	hour INT NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT TRUE,
	CONSTRAINT uq_availability_day_hour UNIQUE (day_of_week, hour)
);

CREATE TABLE IF NOT EXISTS reservations (
	id SERIAL PRIMARY KEY,
	day_of_week INT NOT NULL,
	hour INT NOT NULL,
	client_name TEXT NOT NULL,
	client_email TEXT NOT NULL,
	reservation_date TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT uq_reservations_slot_date UNIQUE (day_of_week, hour, reservation_date)
);

CREATE INDEX IF NOT EXISTS idx_reservations_date_hour ON reservations (reservation_date, hour);
`

// Migrate applies the schema. Safe to run on every startup.
func Migrate(database *sql.DB) error {
	_, err := database.Exec(schemaSQL)
	return err
}
