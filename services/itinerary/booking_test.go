package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	itineraryRepo "itinera/database/repository/itinerary"
	"itinera/models"
	"itinera/services/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// pricedItinerary returns an itinerary with one outbound flight, priced for
// the stub's traveler count, whose admin has complete traveler info.
func pricedItinerary(t *testing.T, f *fixture) *models.Itinerary {
	t.Helper()
	ctx := context.Background()
	it := f.create(t)
	key := f.cacheFlight(t, [2]string{"AA", "100"})

	_, err := f.svc.AttachOutbound(ctx, it.ID, key)
	require.NoError(t, err)
	_, err = f.svc.UpdateTravelerInfo(ctx, it.ID, adminID, validInfo("admin@example.com"))
	require.NoError(t, err)
	priced, err := f.svc.ConfirmPricing(ctx, it.ID)
	require.NoError(t, err)
	return priced
}

func bookedItinerary(t *testing.T, f *fixture) *models.Itinerary {
	t.Helper()
	it := pricedItinerary(t, f)
	booked, err := f.svc.Book(context.Background(), it.ID, adminID)
	require.NoError(t, err)
	return booked
}

func TestEndToEnd_SearchAttachPriceBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	options := []models.FlightOption{
		{Flights: []models.FlightLeg{{Airline: "AA", FlightNumber: "100"}}, Adults: 1},
		{Flights: []models.FlightLeg{{Airline: "AA", FlightNumber: "100"}, {Airline: "DL", FlightNumber: "200"}}, Adults: 1},
	}
	search.StampFlightKeys(options)
	for _, o := range options {
		require.NoError(t, f.cache.Put(ctx, models.KindFlight, o.ID, models.NewFlightResult(o.ID, o)))
	}
	require.Equal(t, "AA100", options[0].ID)
	require.Equal(t, "AA100_DL200", options[1].ID)

	it := f.create(t)

	got, err := f.svc.AttachOutbound(ctx, it.ID, "AA100_DL200")
	require.NoError(t, err)
	assert.Equal(t, "AA100_DL200", got.Flights[models.OutboundSlot].ID)

	got, err = f.svc.AttachReturn(ctx, it.ID, "AA100")
	require.NoError(t, err)
	assert.Equal(t, "AA100", got.Flights[models.ReturnSlot].ID)
	assert.Equal(t, models.SlotsRoundTrip, got.SlotState())

	got, err = f.svc.ConfirmPricing(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatePriced, got.BookingState())

	_, err = f.svc.UpdateTravelerInfo(ctx, it.ID, adminID, validInfo("admin@example.com"))
	require.NoError(t, err)
	errs, err := f.svc.CheckAllTravelerInfoIsProvided(ctx, it.ID)
	require.NoError(t, err)
	assert.Empty(t, errs)

	got, err = f.svc.Book(ctx, it.ID, adminID)
	require.NoError(t, err)
	assert.Equal(t, models.StateBooked, got.BookingState())
	require.NotNil(t, got.Booking)
	assert.Len(t, got.Booking.Reference, ReferenceLength)
	assert.Regexp(t, referencePattern, got.Booking.Reference)
	assert.Equal(t, "order-1", got.Booking.Confirmation.OrderID)
	assert.Equal(t, adminID, got.Booking.BookedBy)

	require.Len(t, f.enqueuer.tasks, 1)
	assert.Equal(t, models.TaskItineraryBooked, f.enqueuer.tasks[0].Type())
	var payload models.BookedPayload
	require.NoError(t, json.Unmarshal(f.enqueuer.tasks[0].Payload(), &payload))
	assert.Equal(t, got.Booking.Reference, payload.Reference)
}

func TestConfirmPricing_NoFlight(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	it := f.create(t)

	_, err := f.svc.ConfirmPricing(context.Background(), it.ID)
	assert.ErrorIs(t, err, ErrNoFlightSelected)
	assert.Zero(t, f.gds.priceCalls)
}

func TestConfirmPricing_ProviderErrorLeavesItineraryUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	it := f.create(t)
	key := f.cacheFlight(t, [2]string{"AA", "100"})
	_, err := f.svc.AttachOutbound(ctx, it.ID, key)
	require.NoError(t, err)

	f.gds.priceErr = errors.New("upstream timeout")
	_, err = f.svc.ConfirmPricing(ctx, it.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "amadeus", perr.Provider)

	stored, _ := f.repo.GetByID(it.ID)
	assert.Nil(t, stored.Pricing)
	assert.Equal(t, models.StateUnpriced, stored.BookingState())
}

func TestBook_UnpricedFailsWithoutMutation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	it := f.create(t)
	before, _ := f.repo.GetByID(it.ID)

	_, err := f.svc.Book(ctx, it.ID, adminID)
	assert.ErrorIs(t, err, ErrNotPriced)

	after, _ := f.repo.GetByID(it.ID)
	assert.Equal(t, before, after)
	assert.Zero(t, f.gds.bookCalls)
}

func TestBook_TravelerCountMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.gds.travelers = 3
	it := pricedItinerary(t, f)

	_, err := f.svc.AddMember(ctx, it.ID, guestID)
	require.NoError(t, err)
	_, err = f.svc.UpdateTravelerInfo(ctx, it.ID, guestID, validInfo("guest@example.com"))
	require.NoError(t, err)

	_, err = f.svc.Book(ctx, it.ID, adminID)
	require.Error(t, err)

	var mismatch *TravelerCountMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)
	assert.ErrorIs(t, err, ErrTravelerCountMismatch)

	stored, _ := f.repo.GetByID(it.ID)
	assert.Equal(t, models.StatePriced, stored.BookingState())
	assert.Zero(t, f.gds.bookCalls)
}

func TestBook_IncompleteTravelerInfo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.gds.travelers = 2
	it := pricedItinerary(t, f)

	// guest never submits traveler info
	_, err := f.svc.AddMember(ctx, it.ID, guestID)
	require.NoError(t, err)

	_, err = f.svc.Book(ctx, it.ID, adminID)
	require.Error(t, err)

	var incomplete *IncompleteTravelerInfoError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{"guest@example.com:Traveler info is missing"}, incomplete.Errors)
	assert.Equal(t, []string{"guest@example.com"}, incomplete.Missing)
	assert.ErrorIs(t, err, ErrIncompleteTravelerInfo)
	assert.ErrorIs(t, err, ErrMissingTravelerInfo)
	assert.Zero(t, f.gds.bookCalls)
}

func TestIncompleteTravelerInfoError_MissingOnlyWhenAbsent(t *testing.T) {
	t.Parallel()
	invalidOnly := &IncompleteTravelerInfoError{Errors: []string{"a@example.com:Gender is required"}}
	assert.ErrorIs(t, invalidOnly, ErrIncompleteTravelerInfo)
	assert.NotErrorIs(t, invalidOnly, ErrMissingTravelerInfo)

	missing := &IncompleteTravelerInfoError{
		Errors:  []string{"b@example.com:Traveler info is missing"},
		Missing: []string{"b@example.com"},
	}
	assert.ErrorIs(t, missing, ErrMissingTravelerInfo)
}

func TestBook_ProviderFailureKeepsPriced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	it := pricedItinerary(t, f)
	f.gds.bookErr = errors.New("SEGMENT SELL FAILURE")

	_, err := f.svc.Book(ctx, it.ID, adminID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingFailed)

	stored, _ := f.repo.GetByID(it.ID)
	assert.False(t, stored.IsBooked)
	assert.Nil(t, stored.Booking)
	assert.Equal(t, models.StatePriced, stored.BookingState())
	require.NotNil(t, stored.LastBookingFailure)
	assert.Contains(t, stored.LastBookingFailure.Error, "SEGMENT SELL FAILURE")
	assert.Nil(t, stored.LastBookingFailure.Confirmation)
	assert.Nil(t, stored.BookingLock)
	assert.Empty(t, f.enqueuer.tasks)

	// a retry after the provider recovers books the itinerary
	f.gds.bookErr = nil
	booked, err := f.svc.Book(ctx, it.ID, adminID)
	require.NoError(t, err)
	assert.True(t, booked.IsBooked)
	assert.Nil(t, booked.LastBookingFailure)
}

func TestBook_FlightEditsRejectedWhileOrderInFlight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	it := pricedItinerary(t, f)
	other := f.cacheFlight(t, [2]string{"UA", "900"})

	var attachErr, priceErr, storeErr error
	f.gds.onBook = func() {
		_, attachErr = f.svc.AttachOutbound(ctx, it.ID, other)
		_, priceErr = f.svc.ConfirmPricing(ctx, it.ID)
		_, storeErr = f.repo.SetFlights(it.ID, nil)
	}

	booked, err := f.svc.Book(ctx, it.ID, adminID)
	require.NoError(t, err)
	assert.ErrorIs(t, attachErr, ErrInvalidOperation)
	assert.ErrorIs(t, priceErr, ErrInvalidOperation)
	assert.ErrorIs(t, storeErr, itineraryRepo.ErrStateChanged)
	assert.Equal(t, 1, f.gds.priceCalls)

	require.Len(t, booked.Flights, 1)
	assert.Equal(t, "AA100", booked.Flights[models.OutboundSlot].ID)
	assert.Equal(t, it.Pricing.PricedAt.UnixNano(), booked.Pricing.PricedAt.UnixNano())
	assert.Nil(t, booked.BookingLock)
}

func TestBook_RosterChangesRejectedWhileOrderInFlight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.users.Create(&models.User{ID: "user-third", Email: "third@example.com"}))
	it := pricedItinerary(t, f)

	var addErr, infoErr error
	f.gds.onBook = func() {
		_, addErr = f.svc.AddMember(ctx, it.ID, "user-third")
		_, infoErr = f.svc.UpdateTravelerInfo(ctx, it.ID, adminID, validInfo("other@example.com"))
	}

	booked, err := f.svc.Book(ctx, it.ID, adminID)
	require.NoError(t, err)
	assert.ErrorIs(t, addErr, ErrInvalidOperation)
	assert.ErrorIs(t, infoErr, ErrInvalidOperation)

	require.Len(t, booked.Users, 1)
	assert.Equal(t, 1, booked.Booking.Travelers)
	assert.Equal(t, "admin@example.com", booked.Users[0].TravelerInfo.Contact.EmailAddress)

	// once booked the roster is open again
	after, err := f.svc.AddMember(ctx, it.ID, "user-third")
	require.NoError(t, err)
	assert.Len(t, after.Users, 2)
}

func TestBook_SecondBookWhileOrderInFlight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	it := pricedItinerary(t, f)

	var secondErr error
	f.gds.onBook = func() {
		_, secondErr = f.svc.Book(ctx, it.ID, guestID)
	}

	booked, err := f.svc.Book(ctx, it.ID, adminID)
	require.NoError(t, err)
	assert.ErrorIs(t, secondErr, ErrInvalidOperation)
	assert.Equal(t, 1, f.gds.bookCalls)
	assert.Equal(t, adminID, booked.Booking.BookedBy)
	assert.Len(t, f.enqueuer.tasks, 1)
}

func TestBook_UnrecordedOrderIsKeptAndBlocksRebooking(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	it := pricedItinerary(t, f)
	f.repo.markErr = errors.New("write concern timeout")

	_, err := f.svc.Book(ctx, it.ID, adminID)
	require.Error(t, err)

	stored, _ := f.repo.GetByID(it.ID)
	assert.False(t, stored.IsBooked)
	assert.Nil(t, stored.BookingLock)
	require.NotNil(t, stored.LastBookingFailure)
	require.NotNil(t, stored.LastBookingFailure.Confirmation)
	assert.Equal(t, "order-1", stored.LastBookingFailure.Confirmation.OrderID)
	assert.Contains(t, stored.LastBookingFailure.Error, "write concern timeout")
	assert.Empty(t, f.enqueuer.tasks)

	f.repo.markErr = nil
	_, err = f.svc.Book(ctx, it.ID, adminID)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Contains(t, err.Error(), "order-1")
	assert.Equal(t, 1, f.gds.bookCalls)
}

func TestBook_BookedIsTerminal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	it := bookedItinerary(t, f)

	_, err := f.svc.Book(ctx, it.ID, adminID)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	_, err = f.svc.ConfirmPricing(ctx, it.ID)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, 1, f.gds.bookCalls)
}

func TestBook_EnqueueFailureDoesNotUndoBooking(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.enqueuer.err = errors.New("redis down")

	booked := bookedItinerary(t, f)
	assert.True(t, booked.IsBooked)
}

func TestBook_OrderCarriesTravelersAndOperator(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	bookedItinerary(t, f)

	order := f.gds.lastOrder
	require.Len(t, order.Travelers, 1)
	assert.Equal(t, "1", order.Travelers[0].ID)
	assert.Equal(t, "Ada", order.Travelers[0].Name.FirstName)
	require.Len(t, order.Contacts, 1)
	assert.Equal(t, "Itinera", order.Contacts[0].CompanyName)
	assert.Equal(t, "TEST", order.Remarks.General[0].Text)
	assert.NotEmpty(t, order.FlightOffers)
}

func TestNewReference(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := NewReference()
		assert.Regexp(t, referencePattern, ref)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 1)
}
