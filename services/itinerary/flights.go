package itinerary

import (
	"context"
	"fmt"

	"itinera/models"

	"go.uber.org/zap"
)

// AttachOutbound puts the cached flight into the outbound slot, keeping any
// return flight. Valid from every slot state.
func (s *DefaultItineraryService) AttachOutbound(ctx context.Context, id, flightKey string) (*models.Itinerary, error) {
	it, err := s.loadUnbooked(id)
	if err != nil {
		return nil, err
	}
	flight, err := s.resolveFlight(ctx, flightKey)
	if err != nil {
		return nil, err
	}

	slots := make([]models.FlightOption, 0, models.MaxFlightSlots)
	slots = append(slots, *flight)
	if len(it.Flights) > models.ReturnSlot {
		slots = append(slots, it.Flights[models.ReturnSlot])
	}
	return s.writeSlots(it, slots, "outbound attached")
}

// AttachReturn writes the return slot. An outbound flight must be attached first.
func (s *DefaultItineraryService) AttachReturn(ctx context.Context, id, flightKey string) (*models.Itinerary, error) {
	it, err := s.loadUnbooked(id)
	if err != nil {
		return nil, err
	}
	if it.SlotState() == models.SlotsEmpty {
		return nil, invalid("cannot attach a return flight before an outbound flight")
	}
	flight, err := s.resolveFlight(ctx, flightKey)
	if err != nil {
		return nil, err
	}

	slots := []models.FlightOption{it.Flights[models.OutboundSlot], *flight}
	return s.writeSlots(it, slots, "return attached")
}

// DetachOutbound clears both slots.
func (s *DefaultItineraryService) DetachOutbound(ctx context.Context, id string) (*models.Itinerary, error) {
	it, err := s.loadUnbooked(id)
	if err != nil {
		return nil, err
	}
	return s.writeSlots(it, []models.FlightOption{}, "flights cleared")
}

// DetachReturn drops the return slot. From OutboundOnly there is nothing to
// drop and the itinerary is returned unchanged.
func (s *DefaultItineraryService) DetachReturn(ctx context.Context, id string) (*models.Itinerary, error) {
	it, err := s.loadUnbooked(id)
	if err != nil {
		return nil, err
	}
	switch it.SlotState() {
	case models.SlotsEmpty:
		return nil, invalid("no outbound flight to detach a return flight from")
	case models.SlotsOutboundOnly:
		return it, nil
	}
	return s.writeSlots(it, it.Flights[:models.ReturnSlot], "return detached")
}

func (s *DefaultItineraryService) loadUnbooked(id string) (*models.Itinerary, error) {
	it, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if it.IsBooked {
		return nil, invalid("itinerary is already booked")
	}
	if it.BookingLock.Live(s.Now()) {
		return nil, invalid("a booking is in progress")
	}
	return it, nil
}

func (s *DefaultItineraryService) resolveFlight(ctx context.Context, key string) (*models.FlightOption, error) {
	r, err := s.resolve(ctx, models.KindFlight, key)
	if err != nil {
		return nil, err
	}
	return r.Flight, nil
}

// resolve reads a selection back from the provider cache.
func (s *DefaultItineraryService) resolve(ctx context.Context, kind models.ResultKind, key string) (*models.ProviderResult, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty %s key", ErrReferenceNotFound, kind)
	}
	r, ok, err := s.Cache.Get(ctx, kind, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider cache: %w", err)
	}
	if !ok {
		s.Logger.Info("Selection not in provider cache", zap.String("kind", string(kind)), zap.String("key", key))
		return nil, fmt.Errorf("%w: %s %q", ErrReferenceNotFound, kind, key)
	}
	return r, nil
}

// writeSlots persists the new slots. The store clears pricing in the same update.
func (s *DefaultItineraryService) writeSlots(it *models.Itinerary, slots []models.FlightOption, action string) (*models.Itinerary, error) {
	updated, err := s.Repo.SetFlights(it.ID, slots)
	if err != nil {
		return nil, s.storeError(err)
	}
	s.Logger.Info("Flight slots updated",
		zap.String("itineraryId", it.ID),
		zap.String("action", action),
		zap.String("slots", string(updated.SlotState())),
		zap.Bool("pricingCleared", it.Pricing != nil))
	return updated, nil
}
