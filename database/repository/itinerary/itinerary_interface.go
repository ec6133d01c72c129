package itineraryRepo

import (
	"errors"
	"time"

	"itinera/models"
)

var (
	// ErrNotFound is returned when no itinerary has the given id.
	ErrNotFound = errors.New("itinerary not found")
	// ErrStateChanged is returned when a guarded update finds the itinerary
	// booked, held by a live booking attempt, or otherwise no longer in the
	// expected state.
	ErrStateChanged = errors.New("itinerary state changed")
)

// BookingClaim is what a booking attempt validated: the pricing snapshot it
// priced against and the roster size. Token identifies the attempt's lock.
type BookingClaim struct {
	Token     string
	PricedAt  time.Time
	Travelers int
}

// ItineraryRepository is the document store for itineraries. Every mutator is a
// single atomic document update that returns the document as it is afterwards.
type ItineraryRepository interface {
	Create(it *models.Itinerary) error
	GetByID(id string) (*models.Itinerary, error)
	// GetByMember lists itineraries the user is on the roster of. A nil booked
	// matches both booked and unbooked itineraries.
	GetByMember(userID string, booked *bool) ([]models.Itinerary, error)

	// SetFlights replaces the flight slots and clears any pricing. Fails with
	// ErrStateChanged once the itinerary is booked or a booking is in flight.
	SetFlights(id string, flights []models.FlightOption) (*models.Itinerary, error)
	// SetPricing stores a pricing snapshot on an unbooked itinerary with no
	// booking in flight.
	SetPricing(id string, pricing *models.PricingSnapshot) (*models.Itinerary, error)

	// BeginBooking takes the booking lock. It matches only an unbooked
	// itinerary with no live lock, no unreconciled provider order, the claimed
	// pricing snapshot and exactly the claimed number of roster members.
	BeginBooking(id string, claim BookingClaim) (*models.Itinerary, error)
	// MarkBooked sets the booking record and the terminal flag and releases
	// the lock. It matches only while the claim's lock, pricing and roster size hold.
	MarkBooked(id string, claim BookingClaim, booking *models.BookingRecord) (*models.Itinerary, error)
	// RecordBookingFailure keeps the failed attempt and releases the claim's lock.
	RecordBookingFailure(id string, claim BookingClaim, failure *models.BookingFailure) (*models.Itinerary, error)

	// PushItem appends to a keyed collection.
	PushItem(id string, c models.Collection, item models.CollectionItem) (*models.Itinerary, error)
	// PullItem removes by store id. Pulling an absent item is not an error.
	PullItem(id string, c models.Collection, itemID string) (*models.Itinerary, error)

	// AddMember appends a roster entry unless the user is already on it.
	// Fails with ErrStateChanged while a booking is in flight.
	AddMember(id string, entry models.RosterEntry) (*models.Itinerary, error)
	// SetTravelerInfo replaces one roster member's traveler info. Fails with
	// ErrStateChanged while a booking is in flight.
	SetTravelerInfo(id, userID string, info *models.TravelerInfo) (*models.Itinerary, error)
}
