package itineraryRepo

import (
	"testing"
	"time"

	"itinera/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func storedDoc(id string) bson.D {
	return bson.D{{Key: "id", Value: id}, {Key: "isBooked", Value: false}}
}

// updated answers one findAndModify with the given document.
func updated(doc bson.D) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

// missed answers one findAndModify that matched nothing, then the existence
// count that follows it.
func missed(mt *mtest.T, exists bool) {
	n := int32(0)
	if exists {
		n = 1
	}
	ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
	mt.AddMockResponses(
		mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}}),
	)
}

func findAndModify(mt *mtest.T) (query, update bson.Raw) {
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	require.Equal(mt, "findAndModify", evt.CommandName)
	return evt.Command.Lookup("query").Document(), evt.Command.Lookup("update").Document()
}

func TestMongoItineraryRepo_UpdateDocuments(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("set flights clears pricing", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		mt.AddMockResponses(updated(storedDoc("it-1")))

		it, err := repo.SetFlights("it-1", nil)
		require.NoError(mt, err)
		assert.Equal(mt, "it-1", it.ID)

		query, update := findAndModify(mt)
		assert.Equal(mt, "it-1", query.Lookup("id").StringValue())
		assert.False(mt, query.Lookup("isBooked").Boolean())
		_, err = query.LookupErr("$or")
		assert.NoError(mt, err, "flight edits must wait for an in-flight booking")

		_, err = update.LookupErr("$unset", "pricing")
		assert.NoError(mt, err)
		flights, err := update.LookupErr("$set", "flights")
		require.NoError(mt, err)
		assert.Equal(mt, bson.TypeArray, flights.Type)
		_, err = update.LookupErr("$set", "updatedAt")
		assert.NoError(mt, err)
	})

	mt.Run("begin booking guards pricing roster and lock", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		mt.AddMockResponses(updated(storedDoc("it-1")))

		pricedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		claim := BookingClaim{Token: "tok-1", PricedAt: pricedAt, Travelers: 2}
		_, err := repo.BeginBooking("it-1", claim)
		require.NoError(mt, err)

		query, update := findAndModify(mt)
		assert.False(mt, query.Lookup("isBooked").Boolean())
		assert.True(mt, pricedAt.Equal(query.Lookup("pricing.pricedAt").Time()))
		assert.Equal(mt, int64(2), query.Lookup("users", "$size").AsInt64())
		assert.False(mt, query.Lookup("lastBookingFailure.confirmation", "$exists").Boolean())
		alternatives, err := query.Lookup("$or").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, alternatives, 2)

		assert.Equal(mt, "tok-1", update.Lookup("$set", "bookingLock", "token").StringValue())
	})

	mt.Run("begin booking miss on existing itinerary is a state change", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		missed(mt, true)

		_, err := repo.BeginBooking("it-1", BookingClaim{Token: "tok-1", Travelers: 1})
		assert.ErrorIs(mt, err, ErrStateChanged)
	})

	mt.Run("mark booked requires the claim and releases the lock", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		doc := append(storedDoc("it-1"), bson.E{Key: "booking", Value: bson.D{{Key: "reference", Value: "ABC123"}}})
		mt.AddMockResponses(updated(doc))

		pricedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		claim := BookingClaim{Token: "tok-1", PricedAt: pricedAt, Travelers: 1}
		it, err := repo.MarkBooked("it-1", claim, &models.BookingRecord{Reference: "ABC123"})
		require.NoError(mt, err)
		require.NotNil(mt, it.Booking)
		assert.Equal(mt, "ABC123", it.Booking.Reference)

		query, update := findAndModify(mt)
		assert.False(mt, query.Lookup("isBooked").Boolean())
		assert.Equal(mt, "tok-1", query.Lookup("bookingLock.token").StringValue())
		assert.True(mt, pricedAt.Equal(query.Lookup("pricing.pricedAt").Time()))
		assert.Equal(mt, int64(1), query.Lookup("users", "$size").AsInt64())

		assert.True(mt, update.Lookup("$set", "isBooked").Boolean())
		assert.Equal(mt, "ABC123", update.Lookup("$set", "booking", "reference").StringValue())
		_, err = update.LookupErr("$unset", "bookingLock")
		assert.NoError(mt, err)
		_, err = update.LookupErr("$unset", "lastBookingFailure")
		assert.NoError(mt, err)
	})

	mt.Run("mark booked miss on missing itinerary is not found", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		missed(mt, false)

		_, err := repo.MarkBooked("gone", BookingClaim{Token: "tok-1"}, &models.BookingRecord{})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("record failure keeps the confirmation", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		mt.AddMockResponses(updated(storedDoc("it-1")))

		failure := &models.BookingFailure{
			Error:        "booking was not recorded",
			Confirmation: &models.BookingConfirmation{OrderID: "order-9"},
		}
		_, err := repo.RecordBookingFailure("it-1", BookingClaim{Token: "tok-1"}, failure)
		require.NoError(mt, err)

		query, update := findAndModify(mt)
		assert.Equal(mt, "tok-1", query.Lookup("bookingLock.token").StringValue())
		assert.Equal(mt, "order-9", update.Lookup("$set", "lastBookingFailure", "confirmation", "orderId").StringValue())
		_, err = update.LookupErr("$unset", "bookingLock")
		assert.NoError(mt, err)
	})

	mt.Run("pull item matches the store id", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		mt.AddMockResponses(updated(storedDoc("it-1")))

		_, err := repo.PullItem("it-1", models.CollectionHotels, "item-7")
		require.NoError(mt, err)

		_, update := findAndModify(mt)
		assert.Equal(mt, "item-7", update.Lookup("$pull", string(models.CollectionHotels), "_id").StringValue())
	})

	mt.Run("add member skips existing members", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		mt.AddMockResponses(updated(storedDoc("it-1")))

		_, err := repo.AddMember("it-1", models.RosterEntry{UserID: "user-2"})
		require.NoError(mt, err)

		query, update := findAndModify(mt)
		assert.Equal(mt, "user-2", query.Lookup("users.userId", "$ne").StringValue())
		_, err = query.LookupErr("$or")
		assert.NoError(mt, err)
		assert.Equal(mt, "user-2", update.Lookup("$push", "users", "userId").StringValue())
		prefs, err := update.LookupErr("$push", "users", "preferences")
		require.NoError(mt, err)
		assert.Equal(mt, bson.TypeArray, prefs.Type)
	})

	mt.Run("add member of an existing member returns the document", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		existing := append(storedDoc("it-1"), bson.E{Key: "users", Value: bson.A{bson.D{{Key: "userId", Value: "user-2"}}}})
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, existing),
		)

		it, err := repo.AddMember("it-1", models.RosterEntry{UserID: "user-2"})
		require.NoError(mt, err)
		require.Len(mt, it.Users, 1)
		assert.Equal(mt, "user-2", it.Users[0].UserID)
	})

	mt.Run("add member during a booking is a state change", func(mt *mtest.T) {
		repo := &MongoItineraryRepo{coll: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, storedDoc("it-1")),
		)

		_, err := repo.AddMember("it-1", models.RosterEntry{UserID: "user-3"})
		assert.ErrorIs(mt, err, ErrStateChanged)
	})
}
