package gds

import (
	"context"
	"fmt"
	"strings"

	"itinera/models"
)

// Provider is the flight distribution system the itinerary is priced and booked against.
type Provider interface {
	// PriceOffer confirms the current price of the attached flight slots, outbound first.
	PriceOffer(ctx context.Context, flights []models.FlightOption) (*models.PricingSnapshot, error)
	// CreateBooking places the flight order.
	CreateBooking(ctx context.Context, order models.FlightOrderRequest) (*models.BookingConfirmation, error)
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status  int
	Details []APIErrorDetail
}

// APIErrorDetail is one entry of the provider's errors array.
type APIErrorDetail struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("gds returned status %d", e.Status)
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msg := d.Title
		if d.Detail != "" {
			msg += ": " + d.Detail
		}
		parts = append(parts, msg)
	}
	return fmt.Sprintf("gds returned status %d: %s", e.Status, strings.Join(parts, "; "))
}
