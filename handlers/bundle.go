package handlers

import (
	userRepo "itinera/database/repository/user"

	"github.com/go-redis/redis/v8"
)

// HandlerBundle groups the endpoint handlers and what their middleware needs.
type HandlerBundle struct {
	UserRepo  userRepo.UserRepository
	AuthCache *redis.Client

	ItineraryHandler *ItineraryHandler
	SearchHandler    *SearchHandler
}
