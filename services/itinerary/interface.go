package itinerary

import (
	"context"
	"time"

	itineraryRepo "itinera/database/repository/itinerary"
	userRepo "itinera/database/repository/user"
	"itinera/models"
	"itinera/services/gds"
	"itinera/services/providercache"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ItineraryService is everything the HTTP layer can do to an itinerary.
type ItineraryService interface {
	Create(ctx context.Context, userID, title string) (*models.Itinerary, error)
	Get(ctx context.Context, id string) (*models.Itinerary, error)
	ListForUser(ctx context.Context, userID string, booked *bool) ([]models.Itinerary, error)
	AddMember(ctx context.Context, id, userID string) (*models.Itinerary, error)
	UpdateTravelerInfo(ctx context.Context, id, userID string, info *models.TravelerInfo) (*models.Itinerary, error)

	AttachOutbound(ctx context.Context, id, flightKey string) (*models.Itinerary, error)
	AttachReturn(ctx context.Context, id, flightKey string) (*models.Itinerary, error)
	DetachOutbound(ctx context.Context, id string) (*models.Itinerary, error)
	DetachReturn(ctx context.Context, id string) (*models.Itinerary, error)

	AddItem(ctx context.Context, id string, c models.Collection, result models.ProviderResult) (*models.Itinerary, error)
	AddItemByKey(ctx context.Context, id string, c models.Collection, key string) (*models.Itinerary, error)
	RemoveItem(ctx context.Context, id string, c models.Collection, itemID string) (*models.Itinerary, error)

	CheckAllTravelerInfoIsProvided(ctx context.Context, id string) ([]string, error)
	ConfirmPricing(ctx context.Context, id string) (*models.Itinerary, error)
	Book(ctx context.Context, id, bookedBy string) (*models.Itinerary, error)
}

// TaskEnqueuer is the part of an asynq client the service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Operator is the agency contact and remark attached to every flight order.
type Operator struct {
	FirstName   string
	LastName    string
	Company     string
	Email       string
	PhoneCode   string
	PhoneNumber string
	Address     string
	PostalCode  string
	City        string
	Country     string
	Remark      string
}

// DefaultItineraryService implements ItineraryService.
type DefaultItineraryService struct {
	Repo     itineraryRepo.ItineraryRepository
	Users    userRepo.UserRepository
	Cache    providercache.Cache
	GDS      gds.Provider
	Enqueuer TaskEnqueuer
	Operator Operator
	Logger   *zap.Logger

	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() string
}
