package itineraryRepo

import (
	"fmt"
	"time"

	"itinera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// unlocked matches documents with no booking attempt in flight at now.
func unlocked(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"bookingLock": bson.M{"$exists": false}},
		bson.M{"bookingLock.started_at": bson.M{"$lte": now.Add(-models.BookingLockTTL)}},
	}}
}

// editable matches unbooked documents with no booking attempt in flight.
func editable(now time.Time) bson.M {
	guard := unlocked(now)
	guard["isBooked"] = false
	return guard
}

func (r *MongoItineraryRepo) SetFlights(id string, flights []models.FlightOption) (*models.Itinerary, error) {
	if flights == nil {
		flights = []models.FlightOption{}
	}
	return r.guardedUpdate(id, editable(time.Now().UTC()), bson.M{
		"$set":   bson.M{"flights": flights},
		"$unset": bson.M{"pricing": ""},
	})
}

func (r *MongoItineraryRepo) SetPricing(id string, pricing *models.PricingSnapshot) (*models.Itinerary, error) {
	return r.guardedUpdate(id, editable(time.Now().UTC()), bson.M{
		"$set": bson.M{"pricing": pricing},
	})
}

func (r *MongoItineraryRepo) BeginBooking(id string, claim BookingClaim) (*models.Itinerary, error) {
	now := time.Now().UTC()
	guard := editable(now)
	guard["pricing.pricedAt"] = claim.PricedAt
	guard["users"] = bson.M{"$size": claim.Travelers}
	guard["lastBookingFailure.confirmation"] = bson.M{"$exists": false}

	lock := models.BookingLock{Token: claim.Token, StartedAt: now}
	return r.guardedUpdate(id, guard, bson.M{"$set": bson.M{"bookingLock": lock}})
}

func (r *MongoItineraryRepo) MarkBooked(id string, claim BookingClaim, booking *models.BookingRecord) (*models.Itinerary, error) {
	guard := bson.M{
		"isBooked":          false,
		"bookingLock.token": claim.Token,
		"pricing.pricedAt":  claim.PricedAt,
		"users":             bson.M{"$size": claim.Travelers},
	}
	return r.guardedUpdate(id, guard, bson.M{
		"$set":   bson.M{"booking": booking, "isBooked": true},
		"$unset": bson.M{"lastBookingFailure": "", "bookingLock": ""},
	})
}

func (r *MongoItineraryRepo) RecordBookingFailure(id string, claim BookingClaim, failure *models.BookingFailure) (*models.Itinerary, error) {
	return r.guardedUpdate(id, bson.M{"bookingLock.token": claim.Token}, bson.M{
		"$set":   bson.M{"lastBookingFailure": failure},
		"$unset": bson.M{"bookingLock": ""},
	})
}

func (r *MongoItineraryRepo) PushItem(id string, c models.Collection, item models.CollectionItem) (*models.Itinerary, error) {
	return r.update(bson.M{"id": id}, bson.M{"$push": bson.M{string(c): item}})
}

func (r *MongoItineraryRepo) PullItem(id string, c models.Collection, itemID string) (*models.Itinerary, error) {
	return r.update(bson.M{"id": id}, bson.M{"$pull": bson.M{string(c): bson.M{"_id": itemID}}})
}

// AddMember only pushes when the user is not yet on the roster; a repeat add
// returns the unchanged document.
func (r *MongoItineraryRepo) AddMember(id string, entry models.RosterEntry) (*models.Itinerary, error) {
	if entry.Preferences == nil {
		entry.Preferences = []string{}
	}
	filter := unlocked(time.Now().UTC())
	filter["id"] = id
	filter["users.userId"] = bson.M{"$ne": entry.UserID}

	it, err := r.update(filter, bson.M{"$push": bson.M{"users": entry}})
	if err != ErrNotFound {
		return it, err
	}

	current, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, ok := current.Member(entry.UserID); ok {
		return current, nil
	}
	return nil, ErrStateChanged
}

func (r *MongoItineraryRepo) SetTravelerInfo(id, userID string, info *models.TravelerInfo) (*models.Itinerary, error) {
	guard := unlocked(time.Now().UTC())
	guard["users.userId"] = userID
	return r.guardedUpdate(id, guard, bson.M{"$set": bson.M{"users.$.travelerInfo": info}})
}

// guardedUpdate applies update only while the guard matches. A miss is
// reported as ErrNotFound or ErrStateChanged depending on whether the document exists.
func (r *MongoItineraryRepo) guardedUpdate(id string, guard, update bson.M) (*models.Itinerary, error) {
	filter := bson.M{"id": id}
	for k, v := range guard {
		filter[k] = v
	}
	it, err := r.update(filter, update)
	if err != ErrNotFound {
		return it, err
	}

	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	n, cerr := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if cerr != nil {
		return nil, fmt.Errorf("failed to check itinerary with id %s: %w", id, cerr)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStateChanged
}

func (r *MongoItineraryRepo) update(filter, update bson.M) (*models.Itinerary, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var it models.Itinerary
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&it); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update itinerary %v: %w", filter["id"], err)
	}
	return &it, nil
}
