package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	itineraryRepo "itinera/database/repository/itinerary"
	"itinera/models"
	"itinera/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReferenceLength is the length of a booking reference.
const ReferenceLength = 6

// Book validates the roster against the priced offer, places the flight order
// and, only when the provider accepts it, marks the itinerary booked.
//
// The itinerary is locked for the provider call. The lock is taken only while
// the validated pricing and roster are still current, and the commit repeats
// that check, so concurrent edits or a second Book cannot produce an order that
// differs from the booked state.
func (s *DefaultItineraryService) Book(ctx context.Context, id, bookedBy string) (*models.Itinerary, error) {
	it, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch it.BookingState() {
	case models.StateBooked:
		return nil, invalid("itinerary is already booked")
	case models.StateUnpriced:
		return nil, ErrNotPriced
	}
	if f := it.LastBookingFailure; f != nil && f.Confirmation != nil {
		return nil, invalid("provider order %s was placed but not recorded", f.Confirmation.OrderID)
	}

	if errs := checkRoster(it); len(errs) > 0 {
		return nil, &IncompleteTravelerInfoError{Errors: errs, Missing: missingTravelerInfo(it)}
	}

	required := it.Pricing.RequiredTravelers()
	if required != len(it.Users) {
		return nil, &TravelerCountMismatchError{Expected: required, Actual: len(it.Users)}
	}

	claim := itineraryRepo.BookingClaim{
		Token:     s.NewID(),
		PricedAt:  it.Pricing.PricedAt,
		Travelers: len(it.Users),
	}
	if _, err := s.Repo.BeginBooking(id, claim); err != nil {
		if errors.Is(err, itineraryRepo.ErrStateChanged) {
			return nil, invalid("itinerary changed or a booking is already in progress")
		}
		return nil, s.storeError(err)
	}

	order := s.buildOrder(it)
	confirmation, err := s.GDS.CreateBooking(ctx, order)
	if err != nil {
		utils.Bookings.WithLabelValues("failed").Inc()
		s.Logger.Error("Booking rejected by provider", zap.String("itineraryId", id), zap.Error(err))
		s.recordFailure(id, claim, &models.BookingFailure{Error: err.Error(), AttemptedAt: s.Now()})
		return nil, &BookingFailedError{Err: &ProviderError{Provider: gdsProvider, Op: "create booking", Err: err}}
	}

	record := &models.BookingRecord{
		Reference:    NewReference(),
		Confirmation: *confirmation,
		Travelers:    len(order.Travelers),
		BookedBy:     bookedBy,
		CreatedAt:    s.Now(),
	}
	booked, err := s.Repo.MarkBooked(id, claim, record)
	if err != nil {
		// The provider holds an order the itinerary does not. Keep the
		// confirmation so the order can be reconciled and is not placed twice.
		utils.Bookings.WithLabelValues("orphaned").Inc()
		s.Logger.Error("Failed to commit booking",
			zap.String("itineraryId", id),
			zap.String("orderId", confirmation.OrderID),
			zap.Error(err))
		s.recordFailure(id, claim, &models.BookingFailure{
			Error:        "booking was not recorded: " + err.Error(),
			AttemptedAt:  s.Now(),
			Confirmation: confirmation,
		})
		if errors.Is(err, itineraryRepo.ErrStateChanged) {
			return nil, invalid("itinerary changed while booking")
		}
		return nil, s.storeError(err)
	}
	utils.Bookings.WithLabelValues("booked").Inc()
	s.Logger.Info("Itinerary booked",
		zap.String("itineraryId", id),
		zap.String("reference", record.Reference),
		zap.String("orderId", confirmation.OrderID))

	s.notifyBooked(booked)
	return booked, nil
}

// recordFailure stores the failed attempt and releases the booking lock.
func (s *DefaultItineraryService) recordFailure(id string, claim itineraryRepo.BookingClaim, failure *models.BookingFailure) {
	if _, err := s.Repo.RecordBookingFailure(id, claim, failure); err != nil {
		fields := []zap.Field{zap.String("itineraryId", id), zap.Error(err)}
		if failure.Confirmation != nil {
			fields = append(fields, zap.String("orderId", failure.Confirmation.OrderID))
		}
		s.Logger.Warn("Failed to record booking failure", fields...)
	}
}

// NewReference returns a random uppercase booking reference of ReferenceLength characters.
func NewReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:ReferenceLength]
}

func (s *DefaultItineraryService) buildOrder(it *models.Itinerary) models.FlightOrderRequest {
	travelers := make([]models.OrderTraveler, 0, len(it.Users))
	for i, entry := range it.Users {
		info := entry.TravelerInfo
		t := models.OrderTraveler{
			ID:          strconv.Itoa(i + 1),
			DateOfBirth: info.DateOfBirth,
			Gender:      info.Gender,
			Documents:   info.Documents,
		}
		if info.Name != nil {
			t.Name = *info.Name
		}
		if info.Contact != nil {
			t.Contact = *info.Contact
		}
		travelers = append(travelers, t)
	}

	op := s.Operator
	return models.FlightOrderRequest{
		FlightOffers: it.Pricing.FlightOffers,
		Travelers:    travelers,
		Remarks: models.OrderRemarks{General: []models.Remark{
			{SubType: "GENERAL_MISCELLANEOUS", Text: op.Remark},
		}},
		TicketingAgreement: models.TicketingAgreement{Option: "DELAY_TO_CANCEL", Delay: "6D"},
		Contacts: []models.OrderContact{{
			AddresseeName: models.ContactName{FirstName: op.FirstName, LastName: op.LastName},
			CompanyName:   op.Company,
			Purpose:       "STANDARD",
			Phones: []models.Phone{
				{DeviceType: "LANDLINE", CountryCallingCode: op.PhoneCode, Number: op.PhoneNumber},
			},
			EmailAddress: op.Email,
			Address: models.ContactAddress{
				Lines:       []string{op.Address},
				PostalCode:  op.PostalCode,
				CityName:    op.City,
				CountryCode: op.Country,
			},
		}},
	}
}

// notifyBooked hands the confirmation to the background worker. The booking is
// already committed, so a queue failure is only logged.
func (s *DefaultItineraryService) notifyBooked(it *models.Itinerary) {
	if s.Enqueuer == nil || it.Booking == nil {
		return
	}
	payload, err := json.Marshal(models.BookedPayload{
		ItineraryID: it.ID,
		Reference:   it.Booking.Reference,
		OrderID:     it.Booking.Confirmation.OrderID,
	})
	if err != nil {
		s.Logger.Warn("Failed to encode booked task", zap.Error(err))
		return
	}
	task := asynq.NewTask(models.TaskItineraryBooked, payload)
	if _, err := s.Enqueuer.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		s.Logger.Warn("Failed to enqueue booked task", zap.String("itineraryId", it.ID), zap.Error(err))
	}
}
