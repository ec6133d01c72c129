package search

import (
	"context"

	"itinera/models"
)

// SearchService queries the web-search provider. Every call caches the full
// results under their keys before returning the minimized shapes.
type SearchService interface {
	Flights(ctx context.Context, p FlightParams) (*FlightResults, error)
	ReturnFlights(ctx context.Context, p ReturnFlightParams) (*FlightResults, error)
	Hotels(ctx context.Context, p HotelParams) ([]models.HotelSummary, error)
	Food(ctx context.Context, p FoodParams) ([]models.FoodSummary, error)
	Events(ctx context.Context, p EventParams) ([]models.EventSummary, error)
	Places(ctx context.Context, p PlaceParams) (*PlaceResults, error)
}

// FlightParams is a one-way or round-trip outbound search.
type FlightParams struct {
	DepartureID  string `json:"departure_id" binding:"required"`
	ArrivalID    string `json:"arrival_id" binding:"required"`
	OutboundDate string `json:"outbound_date" binding:"required"`
	ReturnDate   string `json:"return_date,omitempty"`
	Adults       int    `json:"adults,omitempty"`
	Currency     string `json:"currency,omitempty"`
	TravelClass  int    `json:"travel_class,omitempty"`
}

// ReturnFlightParams continues a round-trip search from a chosen outbound option.
type ReturnFlightParams struct {
	DepartureID    string `json:"departure_id" binding:"required"`
	ArrivalID      string `json:"arrival_id" binding:"required"`
	OutboundDate   string `json:"outbound_date" binding:"required"`
	ReturnDate     string `json:"return_date" binding:"required"`
	DepartureToken string `json:"departure_token" binding:"required"`
	Adults         int    `json:"adults,omitempty"`
	Currency       string `json:"currency,omitempty"`
}

type HotelParams struct {
	Query        string `json:"q" binding:"required"`
	CheckInDate  string `json:"check_in_date" binding:"required"`
	CheckOutDate string `json:"check_out_date" binding:"required"`
	Adults       int    `json:"adults,omitempty"`
	Currency     string `json:"currency,omitempty"`
	Country      string `json:"gl,omitempty"`
}

type FoodParams struct {
	Query    string `json:"q" binding:"required"`
	Location string `json:"location,omitempty"`
}

type EventParams struct {
	Query string `json:"q" binding:"required"`
}

type PlaceParams struct {
	Query    string `json:"q" binding:"required"`
	Location string `json:"location,omitempty"`
}

// FlightResults keeps the provider's split between best and other options.
type FlightResults struct {
	BestFlights  []models.FlightSummary `json:"best_flights"`
	OtherFlights []models.FlightSummary `json:"other_flights"`
}

// PlaceResults groups a web search into sights, local places and shopping.
type PlaceResults struct {
	Sights   []models.PlaceSummary `json:"sights"`
	Places   []models.PlaceSummary `json:"places"`
	Shopping []models.PlaceSummary `json:"shopping"`
}
