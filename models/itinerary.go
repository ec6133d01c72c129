package models

import "time"

// Flight slot positions.
const (
	OutboundSlot   = 0
	ReturnSlot     = 1
	MaxFlightSlots = 2
)

// SlotState of the itinerary's flight slots.
type SlotState string

const (
	SlotsEmpty        SlotState = "Empty"
	SlotsOutboundOnly SlotState = "OutboundOnly"
	SlotsRoundTrip    SlotState = "RoundTrip"
)

// BookingState of the itinerary lifecycle.
type BookingState string

const (
	StateUnpriced BookingState = "Unpriced"
	StatePriced   BookingState = "Priced"
	StateBooked   BookingState = "Booked"
)

// Collection names a keyed collection on the itinerary. The value is the document field.
type Collection string

const (
	CollectionHotels      Collection = "hotels"
	CollectionActivities  Collection = "activities"
	CollectionEvents      Collection = "events"
	CollectionRestaurants Collection = "restaurants"
	CollectionShopping    Collection = "shopping"
)

// Collections in document order.
var Collections = []Collection{
	CollectionHotels, CollectionActivities, CollectionEvents, CollectionRestaurants, CollectionShopping,
}

// ParseCollection maps a path segment to a Collection.
func ParseCollection(s string) (Collection, bool) {
	for _, c := range Collections {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// ResultKind is the cache keyspace items of this collection are selected from.
func (c Collection) ResultKind() ResultKind {
	switch c {
	case CollectionHotels:
		return KindHotel
	case CollectionEvents:
		return KindEvent
	case CollectionRestaurants:
		return KindFood
	default:
		return KindPlace
	}
}

// CollectionItem is a provider object stored in a keyed collection.
// ID is assigned by the store and differs from the provider key.
type CollectionItem struct {
	ID      string         `json:"_id" bson:"_id"`
	AddedAt time.Time      `json:"addedAt" bson:"addedAt"`
	Result  ProviderResult `json:"result" bson:"result"`
}

// RosterEntry is a participating user. User is filled on read and never persisted.
type RosterEntry struct {
	UserID       string        `json:"userId" bson:"userId"`
	Preferences  []string      `json:"preferences" bson:"preferences"`
	TravelerInfo *TravelerInfo `json:"travelerInfo,omitempty" bson:"travelerInfo,omitempty"`
	User         *User         `json:"user,omitempty" bson:"-"`
}

// Itinerary is the shared trip document.
type Itinerary struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
	Admin string `json:"admin" bson:"admin"`

	Users []RosterEntry `json:"users" bson:"users"`

	// Flights holds at most two options: outbound then return.
	Flights     []FlightOption   `json:"flights" bson:"flights"`
	Hotels      []CollectionItem `json:"hotels" bson:"hotels"`
	Activities  []CollectionItem `json:"activities" bson:"activities"`
	Events      []CollectionItem `json:"events" bson:"events"`
	Restaurants []CollectionItem `json:"restaurants" bson:"restaurants"`
	Shopping    []CollectionItem `json:"shopping" bson:"shopping"`

	Pricing            *PricingSnapshot `json:"pricing,omitempty" bson:"pricing,omitempty"`
	Booking            *BookingRecord   `json:"booking,omitempty" bson:"booking,omitempty"`
	LastBookingFailure *BookingFailure  `json:"lastBookingFailure,omitempty" bson:"lastBookingFailure,omitempty"`
	BookingLock        *BookingLock     `json:"bookingLock,omitempty" bson:"bookingLock,omitempty"`
	IsBooked           bool             `json:"isBooked" bson:"isBooked"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SlotState derives the flight-slot state.
func (it *Itinerary) SlotState() SlotState {
	switch {
	case len(it.Flights) >= 2:
		return SlotsRoundTrip
	case len(it.Flights) == 1:
		return SlotsOutboundOnly
	default:
		return SlotsEmpty
	}
}

// BookingState derives the booking lifecycle state.
func (it *Itinerary) BookingState() BookingState {
	switch {
	case it.IsBooked:
		return StateBooked
	case it.Pricing != nil:
		return StatePriced
	default:
		return StateUnpriced
	}
}

// Items returns the slice backing a collection.
func (it *Itinerary) Items(c Collection) []CollectionItem {
	switch c {
	case CollectionHotels:
		return it.Hotels
	case CollectionActivities:
		return it.Activities
	case CollectionEvents:
		return it.Events
	case CollectionRestaurants:
		return it.Restaurants
	case CollectionShopping:
		return it.Shopping
	}
	return nil
}

// SetItems replaces the slice backing a collection.
func (it *Itinerary) SetItems(c Collection, items []CollectionItem) {
	switch c {
	case CollectionHotels:
		it.Hotels = items
	case CollectionActivities:
		it.Activities = items
	case CollectionEvents:
		it.Events = items
	case CollectionRestaurants:
		it.Restaurants = items
	case CollectionShopping:
		it.Shopping = items
	}
}

// Member returns the roster entry for userID.
func (it *Itinerary) Member(userID string) (*RosterEntry, bool) {
	for i := range it.Users {
		if it.Users[i].UserID == userID {
			return &it.Users[i], true
		}
	}
	return nil, false
}
