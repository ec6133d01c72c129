package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"itinera/models"
	"itinera/services/itinerary"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

const defaultCurrency = "usd"

// StripeCheckoutService charges the priced grand total through Stripe Checkout.
type StripeCheckoutService struct {
	ClientURL string
	Logger    *zap.Logger
	// NewSession creates the Stripe session; tests replace it.
	NewSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewStripeCheckoutService(clientURL string, logger *zap.Logger) *StripeCheckoutService {
	return &StripeCheckoutService{
		ClientURL:  strings.TrimRight(clientURL, "/"),
		Logger:     logger,
		NewSession: session.New,
	}
}

func (s *StripeCheckoutService) CreateCheckoutSession(ctx context.Context, it *models.Itinerary) (*CheckoutSession, error) {
	if it.IsBooked {
		return nil, fmt.Errorf("%w: itinerary is already booked", itinerary.ErrInvalidOperation)
	}
	if it.Pricing == nil || len(it.Pricing.FlightOffers) == 0 {
		return nil, itinerary.ErrNotPriced
	}
	amount, currency, err := GrandTotal(it.Pricing)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Title),
				},
				UnitAmount: stripe.Int64(amount),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(s.ClientURL + "/checkout/success"),
		CancelURL:         stripe.String(s.ClientURL),
		ClientReferenceID: stripe.String(it.ID),
	}
	params.Context = ctx
	params.AddMetadata("itineraryId", it.ID)

	sess, err := s.NewSession(params)
	if err != nil {
		s.Logger.Error("Failed to create checkout session", zap.String("itineraryId", it.ID), zap.Error(err))
		return nil, &itinerary.ProviderError{Provider: "stripe", Op: "create checkout session", Err: err}
	}
	s.Logger.Info("Checkout session created",
		zap.String("itineraryId", it.ID),
		zap.String("sessionId", sess.ID),
		zap.Int64("amount", amount))
	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL, Amount: amount, Currency: currency}, nil
}

// GrandTotal sums the priced offers in minor units of their currency.
func GrandTotal(p *models.PricingSnapshot) (int64, string, error) {
	var total float64
	currency := ""
	for _, offer := range p.FlightOffers {
		raw := offer.Price.GrandTotal
		if raw == "" {
			raw = offer.Price.Total
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid offer total %q: %w", raw, err)
		}
		total += v
		if currency == "" {
			currency = strings.ToLower(offer.Price.Currency)
		}
	}
	if currency == "" {
		currency = defaultCurrency
	}
	return int64(math.Round(total * 100)), currency, nil
}
