package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "itinera"

var (
	// ProviderCacheLookups counts cache reads by kind and hit/miss.
	ProviderCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "provider_cache_lookups_total",
		Help:      "Provider result cache lookups",
	}, []string{"kind", "result"})

	// ProviderCalls counts outbound provider calls by outcome.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "provider_calls_total",
		Help:      "Calls made to external travel providers",
	}, []string{"provider", "op", "outcome"})

	// ProviderCallDuration observes provider round trips.
	ProviderCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "provider_call_seconds",
		Help:      "Time taken by external provider calls",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "op"})

	// Bookings counts booking attempts by outcome.
	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "bookings_total",
		Help:      "Itinerary booking attempts",
	}, []string{"outcome"})
)

// Outcome labels a call result for metrics.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// BookingConfirmations counts booked itineraries processed by the background worker.
var BookingConfirmations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: metricsNamespace,
	Name:      "booking_confirmations_total",
	Help:      "Booked itineraries confirmed by the background worker",
})
