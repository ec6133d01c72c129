package itineraryRepo

import (
	"fmt"
	"time"

	"itinera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new itinerary document.
func (r *MongoItineraryRepo) Create(it *models.Itinerary) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, it); err != nil {
		return fmt.Errorf("failed to create itinerary: %w", err)
	}
	return nil
}

func (r *MongoItineraryRepo) GetByID(id string) (*models.Itinerary, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var it models.Itinerary
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&it); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch itinerary with id %s: %w", id, err)
	}
	return &it, nil
}

func (r *MongoItineraryRepo) GetByMember(userID string, booked *bool) ([]models.Itinerary, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"users.userId": userID}
	if booked != nil {
		filter["isBooked"] = *booked
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve itineraries for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	itineraries := []models.Itinerary{}
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, fmt.Errorf("failed to decode itineraries: %w", err)
	}
	return itineraries, nil
}
