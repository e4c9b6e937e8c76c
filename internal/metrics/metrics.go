package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bistro",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bistro",
			Name:      "reservations_created_total",
			Help:      "Reservations admitted by the booking engine.",
		},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bistro",
			Name:      "reservation_conflicts_total",
			Help:      "Reservations rejected for insufficient slot capacity.",
		},
	)

	slotCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bistro",
			Name:      "slot_cache_lookups_total",
			Help:      "Slot cache lookups by result (hit or miss).",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reservationsCreated, reservationConflicts, slotCacheLookups)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncReservationCreated() {
	reservationsCreated.Inc()
}

func IncReservationConflict() {
	reservationConflicts.Inc()
}

func IncSlotCacheHit() {
	slotCacheLookups.WithLabelValues("hit").Inc()
}

func IncSlotCacheMiss() {
	slotCacheLookups.WithLabelValues("miss").Inc()
}
