package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "consultorio",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "consultorio",
			Name:      "reservation_rejected_total",
			Help:      "Count of reservation attempts rejected by reason.",
		},
		[]string{"reason"},
	)

	reservationCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "consultorio",
			Name:      "reservation_cancelled_total",
			Help:      "Count of reservations cancelled.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationCreated, reservationRejected, reservationCancelled)
	})
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

func IncReservationRejected(reason string) {
	reservationRejected.WithLabelValues(reason).Inc()
}

func IncReservationCancelled() {
	reservationCancelled.Inc()
}
