package gds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"itinera/models"
	"itinera/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	providerName = "amadeus"

	pricingPath = "/v1/shopping/flight-offers/pricing"
	ordersPath  = "/v1/booking/flight-orders"
)

// AmadeusClient prices and books flight offers through the Amadeus self-service API.
// Requests are authorized with client-credentials tokens that the oauth2 transport
// fetches and refreshes.
type AmadeusClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// AmadeusConfig holds the API credentials and endpoints.
type AmadeusConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
}

func NewAmadeusClient(ctx context.Context, cfg AmadeusConfig, logger *zap.Logger) *AmadeusClient {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	client := cc.Client(ctx)
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	} else {
		client.Timeout = 30 * time.Second
	}
	return &AmadeusClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

type envelope struct {
	Data interface{} `json:"data"`
}

type pricingRequest struct {
	Type         string               `json:"type"`
	FlightOffers []models.FlightOffer `json:"flightOffers"`
}

type pricingResponse struct {
	Data struct {
		Type         string               `json:"type"`
		FlightOffers []models.FlightOffer `json:"flightOffers"`
	} `json:"data"`
}

type orderRequest struct {
	Type string `json:"type"`
	models.FlightOrderRequest
}

type orderResponse struct {
	Data models.BookingConfirmation `json:"data"`
}

type errorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

func (a *AmadeusClient) PriceOffer(ctx context.Context, flights []models.FlightOption) (*models.PricingSnapshot, error) {
	offer, err := BuildFlightOffer(flights)
	if err != nil {
		return nil, err
	}

	var resp pricingResponse
	req := envelope{Data: pricingRequest{Type: pricingType, FlightOffers: []models.FlightOffer{offer}}}
	if err := a.post(ctx, "price_offer", pricingPath, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data.FlightOffers) == 0 {
		return nil, fmt.Errorf("%s price_offer: no pricing data returned", providerName)
	}
	return &models.PricingSnapshot{
		Type:         resp.Data.Type,
		FlightOffers: resp.Data.FlightOffers,
		PricedAt:     time.Now().UTC(),
	}, nil
}

func (a *AmadeusClient) CreateBooking(ctx context.Context, order models.FlightOrderRequest) (*models.BookingConfirmation, error) {
	var resp orderResponse
	req := envelope{Data: orderRequest{Type: orderType, FlightOrderRequest: order}}
	if err := a.post(ctx, "create_booking", ordersPath, req, &resp); err != nil {
		return nil, err
	}
	if resp.Data.OrderID == "" {
		return nil, fmt.Errorf("%s create_booking: response carried no order id", providerName)
	}
	return &resp.Data, nil
}

func (a *AmadeusClient) post(ctx context.Context, op, path string, body, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		utils.ProviderCallDuration.WithLabelValues(providerName, op).Observe(time.Since(start).Seconds())
		utils.ProviderCalls.WithLabelValues(providerName, op, utils.Outcome(err)).Inc()
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to encode request: %w", providerName, op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s %s: %w", providerName, op, err)
	}
	req.Header.Set("Content-Type", "application/vnd.amadeus+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("GDS request failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s %s: %w", providerName, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", providerName, op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.Unmarshal(data, &e)
		apiErr := &APIError{Status: resp.StatusCode, Details: e.Errors}
		a.logger.Error("GDS returned an error", zap.String("op", op), zap.Error(apiErr))
		return fmt.Errorf("%s %s: %w", providerName, op, apiErr)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", providerName, op, err)
	}
	return nil
}
