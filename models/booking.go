package models

import "time"

// BookingRecord is written once the provider accepted the flight order.
type BookingRecord struct {
	Reference    string              `bson:"reference" json:"reference"`       // Human-facing booking code
	Confirmation BookingConfirmation `bson:"confirmation" json:"confirmation"` // Provider order as returned
	Travelers    int                 `bson:"travelers" json:"travelers"`       // Travelers booked
	BookedBy     string              `bson:"booked_by" json:"booked_by"`       // User who triggered the booking
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}

// BookingFailure records the last failed booking attempt; the itinerary stays priced.
// Confirmation is set when the provider accepted an order the store could not
// commit. Such an itinerary cannot be booked again until the order is reconciled.
type BookingFailure struct {
	Error        string               `bson:"error" json:"error"`
	AttemptedAt  time.Time            `bson:"attempted_at" json:"attempted_at"`
	Confirmation *BookingConfirmation `bson:"confirmation,omitempty" json:"confirmation,omitempty"`
}

// BookingLockTTL bounds how long a booking attempt holds the itinerary.
const BookingLockTTL = 2 * time.Minute

// BookingLock marks a booking attempt in flight. While it is live the flights,
// pricing and roster cannot change and no second attempt can start.
type BookingLock struct {
	Token     string    `bson:"token" json:"token"`
	StartedAt time.Time `bson:"started_at" json:"started_at"`
}

// Live reports whether the lock still holds at now.
func (l *BookingLock) Live(now time.Time) bool {
	return l != nil && now.Sub(l.StartedAt) < BookingLockTTL
}

// TaskItineraryBooked is the background task type emitted after a booking commits.
const TaskItineraryBooked = "itinerary:booked"

// BookedPayload is the background task payload emitted after a booking commits.
type BookedPayload struct {
	ItineraryID string `json:"itineraryId"`
	Reference   string `json:"reference"`
	OrderID     string `json:"orderId"`
}
