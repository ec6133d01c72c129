package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"itinera/models"
	"itinera/services/providercache"
	"itinera/utils"

	"go.uber.org/zap"
)

const providerName = "serpapi"

// SerpClient implements SearchService on top of SerpAPI's Google engines.
type SerpClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Cache      providercache.Cache
	Logger     *zap.Logger
}

func NewSerpClient(baseURL, apiKey string, cache providercache.Cache, logger *zap.Logger) *SerpClient {
	return &SerpClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Cache:      cache,
		Logger:     logger,
	}
}

type flightsResponse struct {
	BestFlights  []models.FlightOption `json:"best_flights"`
	OtherFlights []models.FlightOption `json:"other_flights"`
}

type hotelsResponse struct {
	Properties []models.HotelProperty `json:"properties"`
}

type foodResponse struct {
	LocalResults []models.FoodPlace `json:"local_results"`
}

type eventsResponse struct {
	EventsResults []models.EventResult `json:"events_results"`
}

type placesResponse struct {
	TopSights struct {
		Sights []models.PlaceResult `json:"sights"`
	} `json:"top_sights"`
	LocalResults struct {
		Places []models.PlaceResult `json:"places"`
	} `json:"local_results"`
	ShoppingResults []models.PlaceResult `json:"shopping_results"`
}

func (s *SerpClient) Flights(ctx context.Context, p FlightParams) (*FlightResults, error) {
	q := url.Values{}
	q.Set("departure_id", p.DepartureID)
	q.Set("arrival_id", p.ArrivalID)
	q.Set("outbound_date", p.OutboundDate)
	if p.ReturnDate != "" {
		q.Set("return_date", p.ReturnDate)
		q.Set("type", "1")
	} else {
		q.Set("type", "2")
	}
	adults := atLeastOne(p.Adults)
	q.Set("adults", strconv.Itoa(adults))
	setIf(q, "currency", p.Currency)
	if p.TravelClass > 0 {
		q.Set("travel_class", strconv.Itoa(p.TravelClass))
	}

	var resp flightsResponse
	if err := s.get(ctx, "google_flights", "flights", q, &resp); err != nil {
		return nil, err
	}
	return s.cacheFlights(ctx, resp, adults), nil
}

// ReturnFlights lists return options for the outbound option identified by the departure token.
func (s *SerpClient) ReturnFlights(ctx context.Context, p ReturnFlightParams) (*FlightResults, error) {
	q := url.Values{}
	q.Set("departure_id", p.DepartureID)
	q.Set("arrival_id", p.ArrivalID)
	q.Set("outbound_date", p.OutboundDate)
	q.Set("return_date", p.ReturnDate)
	q.Set("departure_token", p.DepartureToken)
	adults := atLeastOne(p.Adults)
	q.Set("adults", strconv.Itoa(adults))
	setIf(q, "currency", p.Currency)

	var resp flightsResponse
	if err := s.get(ctx, "google_flights", "return_flights", q, &resp); err != nil {
		return nil, err
	}
	return s.cacheFlights(ctx, resp, adults), nil
}

func (s *SerpClient) cacheFlights(ctx context.Context, resp flightsResponse, adults int) *FlightResults {
	StampFlightKeys(resp.BestFlights)
	StampFlightKeys(resp.OtherFlights)

	out := &FlightResults{
		BestFlights:  make([]models.FlightSummary, 0, len(resp.BestFlights)),
		OtherFlights: make([]models.FlightSummary, 0, len(resp.OtherFlights)),
	}
	for _, f := range resp.BestFlights {
		f.Adults = adults
		s.put(ctx, models.KindFlight, f.ID, models.NewFlightResult(f.ID, f))
		out.BestFlights = append(out.BestFlights, f.Summary())
	}
	for _, f := range resp.OtherFlights {
		f.Adults = adults
		s.put(ctx, models.KindFlight, f.ID, models.NewFlightResult(f.ID, f))
		out.OtherFlights = append(out.OtherFlights, f.Summary())
	}
	return out
}

func (s *SerpClient) Hotels(ctx context.Context, p HotelParams) ([]models.HotelSummary, error) {
	q := url.Values{}
	q.Set("q", p.Query)
	q.Set("check_in_date", p.CheckInDate)
	q.Set("check_out_date", p.CheckOutDate)
	q.Set("adults", strconv.Itoa(atLeastOne(p.Adults)))
	setIf(q, "currency", p.Currency)
	setIf(q, "gl", p.Country)

	var resp hotelsResponse
	if err := s.get(ctx, "google_hotels", "hotels", q, &resp); err != nil {
		return nil, err
	}
	out := make([]models.HotelSummary, 0, len(resp.Properties))
	for _, h := range resp.Properties {
		s.put(ctx, models.KindHotel, h.PropertyToken, models.NewHotelResult(h.PropertyToken, h))
		out = append(out, h.Summary())
	}
	return out, nil
}

func (s *SerpClient) Food(ctx context.Context, p FoodParams) ([]models.FoodSummary, error) {
	q := url.Values{}
	q.Set("q", p.Query)
	setIf(q, "location", p.Location)

	var resp foodResponse
	if err := s.get(ctx, "google_food", "food", q, &resp); err != nil {
		return nil, err
	}
	out := make([]models.FoodSummary, 0, len(resp.LocalResults))
	for _, f := range resp.LocalResults {
		s.put(ctx, models.KindFood, f.RestaurantID, models.NewFoodResult(f.RestaurantID, f))
		out = append(out, f.Summary())
	}
	return out, nil
}

// Events caches by title; the provider issues no id for events.
func (s *SerpClient) Events(ctx context.Context, p EventParams) ([]models.EventSummary, error) {
	q := url.Values{}
	q.Set("q", p.Query)

	var resp eventsResponse
	if err := s.get(ctx, "google_events", "events", q, &resp); err != nil {
		return nil, err
	}
	out := make([]models.EventSummary, 0, len(resp.EventsResults))
	for _, e := range resp.EventsResults {
		s.put(ctx, models.KindEvent, e.Title, models.NewEventResult(e.Title, e))
		out = append(out, e.Summary())
	}
	return out, nil
}

func (s *SerpClient) Places(ctx context.Context, p PlaceParams) (*PlaceResults, error) {
	q := url.Values{}
	q.Set("q", p.Query)
	setIf(q, "location", p.Location)

	var resp placesResponse
	if err := s.get(ctx, "google", "places", q, &resp); err != nil {
		return nil, err
	}
	return &PlaceResults{
		Sights:   s.cachePlaces(ctx, resp.TopSights.Sights),
		Places:   s.cachePlaces(ctx, resp.LocalResults.Places),
		Shopping: s.cachePlaces(ctx, resp.ShoppingResults),
	}, nil
}

func (s *SerpClient) cachePlaces(ctx context.Context, places []models.PlaceResult) []models.PlaceSummary {
	out := make([]models.PlaceSummary, 0, len(places))
	for _, pl := range places {
		s.put(ctx, models.KindPlace, pl.Key(), models.NewPlaceResult(pl.Key(), pl))
		out = append(out, pl.Summary())
	}
	return out
}

// put writes one result to the cache. Results without a key cannot be selected
// later and are skipped; cache failures are logged and do not fail the search.
func (s *SerpClient) put(ctx context.Context, kind models.ResultKind, key string, r models.ProviderResult) {
	if key == "" {
		s.Logger.Debug("Skipping provider result without key", zap.String("kind", string(kind)))
		return
	}
	if err := s.Cache.Put(ctx, kind, key, r); err != nil {
		s.Logger.Warn("Failed to cache provider result",
			zap.String("kind", string(kind)), zap.String("key", key), zap.Error(err))
	}
}

func (s *SerpClient) get(ctx context.Context, engine, op string, q url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		utils.ProviderCallDuration.WithLabelValues(providerName, op).Observe(time.Since(start).Seconds())
		utils.ProviderCalls.WithLabelValues(providerName, op, utils.Outcome(err)).Inc()
	}()

	q.Set("engine", engine)
	q.Set("api_key", s.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", providerName, op, err)
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		s.Logger.Error("Search provider request failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s %s: %w", providerName, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", providerName, op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		s.Logger.Error("Search provider returned an error",
			zap.String("op", op), zap.Int("status", resp.StatusCode), zap.String("detail", e.Error))
		return fmt.Errorf("%s %s: status %d: %s", providerName, op, resp.StatusCode, e.Error)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", providerName, op, err)
	}
	return nil
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
