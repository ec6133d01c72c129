package models

import "fmt"

// ResultKind tags which provider payload a ProviderResult carries.
type ResultKind string

const (
	KindFlight ResultKind = "flight"
	KindHotel  ResultKind = "hotel"
	KindEvent  ResultKind = "event"
	KindFood   ResultKind = "food"
	KindPlace  ResultKind = "place"
)

// ResultKinds lists every kind the provider cache keeps a keyspace for.
var ResultKinds = []ResultKind{KindFlight, KindHotel, KindEvent, KindFood, KindPlace}

// Valid reports whether k is a known kind.
func (k ResultKind) Valid() bool {
	switch k {
	case KindFlight, KindHotel, KindEvent, KindFood, KindPlace:
		return true
	}
	return false
}

// ProviderResult is a search result stamped with the key it was cached under.
// Exactly one payload field matching Kind is set.
type ProviderResult struct {
	Kind   ResultKind     `json:"kind" bson:"kind"`
	Key    string         `json:"key" bson:"key"`
	Flight *FlightOption  `json:"flight,omitempty" bson:"flight,omitempty"`
	Hotel  *HotelProperty `json:"hotel,omitempty" bson:"hotel,omitempty"`
	Event  *EventResult   `json:"event,omitempty" bson:"event,omitempty"`
	Food   *FoodPlace     `json:"food,omitempty" bson:"food,omitempty"`
	Place  *PlaceResult   `json:"place,omitempty" bson:"place,omitempty"`
}

// Validate checks the kind tag against the populated payload.
func (r ProviderResult) Validate() error {
	set := 0
	var payloadKind ResultKind
	if r.Flight != nil {
		set++
		payloadKind = KindFlight
	}
	if r.Hotel != nil {
		set++
		payloadKind = KindHotel
	}
	if r.Event != nil {
		set++
		payloadKind = KindEvent
	}
	if r.Food != nil {
		set++
		payloadKind = KindFood
	}
	if r.Place != nil {
		set++
		payloadKind = KindPlace
	}
	if set != 1 {
		return fmt.Errorf("provider result must carry exactly one payload, got %d", set)
	}
	if payloadKind != r.Kind {
		return fmt.Errorf("provider result tagged %q carries a %q payload", r.Kind, payloadKind)
	}
	if r.Key == "" {
		return fmt.Errorf("provider result has no key")
	}
	return nil
}

// NewFlightResult wraps a flight option.
func NewFlightResult(key string, f FlightOption) ProviderResult {
	return ProviderResult{Kind: KindFlight, Key: key, Flight: &f}
}

// NewHotelResult wraps a hotel property.
func NewHotelResult(key string, h HotelProperty) ProviderResult {
	return ProviderResult{Kind: KindHotel, Key: key, Hotel: &h}
}

// NewEventResult wraps an event.
func NewEventResult(key string, e EventResult) ProviderResult {
	return ProviderResult{Kind: KindEvent, Key: key, Event: &e}
}

// NewFoodResult wraps a food listing.
func NewFoodResult(key string, f FoodPlace) ProviderResult {
	return ProviderResult{Kind: KindFood, Key: key, Food: &f}
}

// NewPlaceResult wraps a place or sight.
func NewPlaceResult(key string, p PlaceResult) ProviderResult {
	return ProviderResult{Kind: KindPlace, Key: key, Place: &p}
}
