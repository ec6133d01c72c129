package itineraryRepo

import (
	"context"
	"fmt"
	"time"

	"itinera/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoItineraryRepo implements ItineraryRepository using MongoDB.
type MongoItineraryRepo struct {
	coll *mongo.Collection
}

// NewMongoItineraryRepo creates a new instance of ItineraryRepository using MongoDB.
func NewMongoItineraryRepo() ItineraryRepository {
	repo := &MongoItineraryRepo{coll: database.Collection("itineraries")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoItineraryRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "users.userId", Value: 1}, {Key: "isBooked", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
