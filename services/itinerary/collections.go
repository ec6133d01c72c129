package itinerary

import (
	"context"
	"fmt"

	"itinera/models"

	"go.uber.org/zap"
)

// AddItem appends a provider result to a keyed collection under a fresh store id.
// The result's kind must be the one the collection holds.
func (s *DefaultItineraryService) AddItem(ctx context.Context, id string, c models.Collection, result models.ProviderResult) (*models.Itinerary, error) {
	if want := c.ResultKind(); result.Kind != want {
		return nil, invalid("%s holds %s results, got %q", c, want, result.Kind)
	}
	if err := result.Validate(); err != nil {
		return nil, invalid("%v", err)
	}

	item := models.CollectionItem{
		ID:      s.NewID(),
		AddedAt: s.Now(),
		Result:  result,
	}
	it, err := s.Repo.PushItem(id, c, item)
	if err != nil {
		return nil, s.storeError(err)
	}
	s.Logger.Info("Item added",
		zap.String("itineraryId", id),
		zap.String("collection", string(c)),
		zap.String("itemId", item.ID),
		zap.String("key", result.Key))
	return it, nil
}

// AddItemByKey resolves a search selection from the provider cache and adds it.
func (s *DefaultItineraryService) AddItemByKey(ctx context.Context, id string, c models.Collection, key string) (*models.Itinerary, error) {
	result, err := s.resolve(ctx, c.ResultKind(), key)
	if err != nil {
		return nil, err
	}
	return s.AddItem(ctx, id, c, *result)
}

// RemoveItem deletes by store id. Removing an id that is not there succeeds.
func (s *DefaultItineraryService) RemoveItem(ctx context.Context, id string, c models.Collection, itemID string) (*models.Itinerary, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: item id is required", ErrInvalidOperation)
	}
	it, err := s.Repo.PullItem(id, c, itemID)
	if err != nil {
		return nil, s.storeError(err)
	}
	return it, nil
}
