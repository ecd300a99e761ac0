package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consultorio/internal/api"
	"consultorio/internal/db"
	"consultorio/internal/metrics"
	"consultorio/internal/repository"
	"consultorio/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open DB")
	}
	defer database.Close()
	if err := database.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to DB")
	}

	if err := db.Migrate(database); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	availabilityRepo := repository.NewAvailabilityRepository(database)
	reservationRepo := repository.NewReservationRepository(database)
	jobRepo := repository.NewJobRepository(database)

	if err := seedAvailability(availabilityRepo, &logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed availability")
	}

	metrics.Register()

	sender := service.NewSenderService(&logger)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, &logger)
	reservationSvc := service.NewReservationService(reservationRepo, availabilityRepo, sender, &logger)
	jobSvc := service.NewJobService(jobRepo, sender, &logger)

	availabilityHandler := api.NewAvailabilityHandler(availabilitySvc)
	reservationHandler := api.NewReservationHandler(reservationSvc)

	r := mux.NewRouter()

	r.HandleFunc("/api/availability", availabilityHandler.ListAvailability).Methods("GET")
	r.HandleFunc("/api/availability", availabilityHandler.UpsertAvailability).Methods("POST")
	r.HandleFunc("/api/availability/bulk", availabilityHandler.BulkUpsertAvailability).Methods("PUT")
	r.HandleFunc("/api/reservations", reservationHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/reservations", reservationHandler.ListReservations).Methods("GET")
	r.HandleFunc("/api/reservations/{id}", reservationHandler.CancelReservation).Methods("DELETE")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := database.PingContext(req.Context()); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	reminderSpec := os.Getenv("REMINDER_CRON")
	if reminderSpec == "" {
		reminderSpec = "0 9 * * *"
	}
	c := cron.New()
	if _, err := c.AddFunc(reminderSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := jobSvc.SendUpcomingReminders(ctx); err != nil {
			logger.Error().Err(err).Msg("reminder job failed")
		}
	}); err != nil {
		logger.Fatal().Err(err).Str("spec", reminderSpec).Msg("invalid REMINDER_CRON")
	}
	c.Start()
	defer c.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      cors(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("port", port).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

// seedAvailability inserts the default 7x24 grid on first run against an
// empty store; any existing availability rows skip the seed.
func seedAvailability(repo *repository.AvailabilityRepository, logger *zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := repo.CountSlots(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info().Int("count", count).Msg("availability already seeded")
		return nil
	}

	logger.Info().Msg("seeding default availability slots (business hours 9-17)")
	return repo.SeedDefaultSlots(ctx)
}
