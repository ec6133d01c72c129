package itinerary

import (
	"context"
	"fmt"

	"itinera/models"

	"go.uber.org/zap"
)

const gdsProvider = "amadeus"

// ConfirmPricing asks the GDS for the current price of the attached flights and
// stores the snapshot. A provider failure leaves the itinerary untouched.
func (s *DefaultItineraryService) ConfirmPricing(ctx context.Context, id string) (*models.Itinerary, error) {
	it, err := s.loadUnbooked(id)
	if err != nil {
		return nil, err
	}
	if len(it.Flights) == 0 {
		return nil, ErrNoFlightSelected
	}

	snapshot, err := s.GDS.PriceOffer(ctx, it.Flights)
	if err != nil {
		s.Logger.Error("Pricing failed", zap.String("itineraryId", id), zap.Error(err))
		return nil, &ProviderError{Provider: gdsProvider, Op: "price offer", Err: err}
	}
	if snapshot == nil || len(snapshot.FlightOffers) == 0 {
		return nil, &ProviderError{Provider: gdsProvider, Op: "price offer", Err: fmt.Errorf("no pricing data returned")}
	}

	updated, err := s.Repo.SetPricing(id, snapshot)
	if err != nil {
		return nil, s.storeError(err)
	}
	s.Logger.Info("Itinerary priced",
		zap.String("itineraryId", id),
		zap.Int("travelers", snapshot.RequiredTravelers()),
		zap.String("grandTotal", snapshot.FlightOffers[0].Price.GrandTotal))
	return updated, nil
}
