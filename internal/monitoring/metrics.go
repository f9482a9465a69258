// internal/monitoring/metrics.go
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_tickets_sold_total",
			Help: "Total tickets sold per event",
		},
		[]string{"event"},
	)

	purchaseCancellations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_purchase_cancellations_total",
			Help: "Total purchase cancellations per event",
		},
		[]string{"event"},
	)

	accountRegistrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boxoffice_account_registrations_total",
			Help: "Total accounts registered",
		},
	)

	seatsAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "boxoffice_seats_available",
			Help: "Currently available seats per event",
		},
		[]string{"event"},
	)
)

// TrackTicketSold records a successful purchase.
func TrackTicketSold(event string) {
	ticketsSold.WithLabelValues(event).Inc()
}

// TrackCancellation records a successful purchase cancellation.
func TrackCancellation(event string) {
	purchaseCancellations.WithLabelValues(event).Inc()
}

// TrackRegistration records a new account registration.
func TrackRegistration() {
	accountRegistrations.Inc()
}

// SetSeatsAvailable updates the available-seat gauge for an event.
func SetSeatsAvailable(event string, n int) {
	seatsAvailable.WithLabelValues(event).Set(float64(n))
}
