package payment

import (
	"context"

	"itinera/models"
)

// CheckoutService opens hosted payment pages for priced itineraries.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, it *models.Itinerary) (*CheckoutSession, error)
}

// CheckoutSession is what the client needs to redirect to the payment page.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}
