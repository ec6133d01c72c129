package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	itineraryRepo "itinera/database/repository/itinerary"
	userRepo "itinera/database/repository/user"
	"itinera/models"
	"itinera/services/gds"
	"itinera/services/providercache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func NewItineraryService(
	repo itineraryRepo.ItineraryRepository,
	users userRepo.UserRepository,
	cache providercache.Cache,
	provider gds.Provider,
	enqueuer TaskEnqueuer,
	operator Operator,
	logger *zap.Logger,
) *DefaultItineraryService {
	return &DefaultItineraryService{
		Repo:     repo,
		Users:    users,
		Cache:    cache,
		GDS:      provider,
		Enqueuer: enqueuer,
		Operator: operator,
		Logger:   logger,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
	}
}

// Create starts an itinerary with the creator as admin and first roster member.
func (s *DefaultItineraryService) Create(ctx context.Context, userID, title string) (*models.Itinerary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	it := &models.Itinerary{
		ID:          s.NewID(),
		Title:       title,
		Admin:       userID,
		Users:       []models.RosterEntry{{UserID: userID, Preferences: []string{}}},
		Flights:     []models.FlightOption{},
		Hotels:      []models.CollectionItem{},
		Activities:  []models.CollectionItem{},
		Events:      []models.CollectionItem{},
		Restaurants: []models.CollectionItem{},
		Shopping:    []models.CollectionItem{},
	}
	if err := s.Repo.Create(it); err != nil {
		return nil, fmt.Errorf("failed to create itinerary: %w", err)
	}
	s.Logger.Info("Itinerary created", zap.String("itineraryId", it.ID), zap.String("admin", userID))
	return it, nil
}

// Get loads an itinerary with its roster populated with user records.
func (s *DefaultItineraryService) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	it, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.populate(it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *DefaultItineraryService) ListForUser(ctx context.Context, userID string, booked *bool) ([]models.Itinerary, error) {
	list, err := s.Repo.GetByMember(userID, booked)
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	return list, nil
}

// AddMember puts a user on the roster. Adding an existing member changes nothing.
func (s *DefaultItineraryService) AddMember(ctx context.Context, id, userID string) (*models.Itinerary, error) {
	if _, err := s.Users.GetByID(userID); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, invalid("user %s does not exist", userID)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	it, err := s.Repo.AddMember(id, models.RosterEntry{UserID: userID, Preferences: []string{}})
	if err != nil {
		return nil, s.storeError(err)
	}
	return it, nil
}

// UpdateTravelerInfo replaces a member's traveler info. The record is stored as
// submitted; completeness is checked before booking.
func (s *DefaultItineraryService) UpdateTravelerInfo(ctx context.Context, id, userID string, info *models.TravelerInfo) (*models.Itinerary, error) {
	it, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if _, ok := it.Member(userID); !ok {
		return nil, ErrNotMember
	}
	updated, err := s.Repo.SetTravelerInfo(id, userID, info)
	if err != nil {
		return nil, s.storeError(err)
	}
	return updated, nil
}

func (s *DefaultItineraryService) load(id string) (*models.Itinerary, error) {
	it, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, s.storeError(err)
	}
	return it, nil
}

// populate attaches user records to roster entries. Entries whose user is gone stay bare.
func (s *DefaultItineraryService) populate(it *models.Itinerary) error {
	ids := make([]string, 0, len(it.Users))
	for _, u := range it.Users {
		ids = append(ids, u.UserID)
	}
	users, err := s.Users.GetByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to load itinerary members: %w", err)
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range it.Users {
		it.Users[i].User = byID[it.Users[i].UserID]
	}
	return nil
}

// storeError maps repository sentinels onto the service's errors.
func (s *DefaultItineraryService) storeError(err error) error {
	switch {
	case errors.Is(err, itineraryRepo.ErrNotFound):
		return ErrItineraryNotFound
	case errors.Is(err, itineraryRepo.ErrStateChanged):
		return invalid("itinerary is booked or a booking is in progress")
	}
	return err
}
