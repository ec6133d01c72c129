package search

import (
	"strings"

	"itinera/models"
)

// FlightKeyDelimiter joins the per-leg parts of a flight key. It is not escaped,
// so a carrier code containing it can collide with a different leg sequence.
const FlightKeyDelimiter = "_"

// FlightKey derives the cache key of a flight option from its legs, in order:
// carrier and flight number of each leg concatenated, legs joined by FlightKeyDelimiter.
// Options flying the same legs share a key regardless of price or cabin.
func FlightKey(legs []models.FlightLeg) string {
	parts := make([]string, 0, len(legs))
	for _, leg := range legs {
		parts = append(parts, leg.Airline+leg.FlightNumber)
	}
	return strings.Join(parts, FlightKeyDelimiter)
}

// StampFlightKeys writes the synthesized key into each option's ID.
func StampFlightKeys(options []models.FlightOption) {
	for i := range options {
		options[i].ID = FlightKey(options[i].Flights)
	}
}
