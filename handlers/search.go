package handlers

import (
	"net/http"

	"itinera/services/search"
	"itinera/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler exposes the search provider. Results are cached so they can be
// selected into an itinerary by key afterwards.
type SearchHandler struct {
	Service search.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc search.SearchService) *SearchHandler {
	return &SearchHandler{Service: svc}
}

// bindSearch binds the JSON body into params, writing a 400 on failure.
func bindSearch(c *gin.Context, params interface{}) bool {
	if err := c.ShouldBindJSON(params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return false
	}
	return true
}

func searchFailed(c *gin.Context, op string, err error) {
	getLogger(c).Error("Search failed", zap.String("op", op), zap.Error(err))
	utils.JSONError(c, http.StatusBadGateway, "Search provider error", err.Error())
}

// FlightsHandler searches outbound flights.
func (h *SearchHandler) FlightsHandler(c *gin.Context) {
	var params search.FlightParams
	if !bindSearch(c, &params) {
		return
	}
	res, err := h.Service.Flights(c.Request.Context(), params)
	if err != nil {
		searchFailed(c, "flights", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReturnFlightsHandler searches return options for a chosen outbound departure token.
func (h *SearchHandler) ReturnFlightsHandler(c *gin.Context) {
	var params search.ReturnFlightParams
	if !bindSearch(c, &params) {
		return
	}
	res, err := h.Service.ReturnFlights(c.Request.Context(), params)
	if err != nil {
		searchFailed(c, "return-flights", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HotelsHandler searches hotels.
func (h *SearchHandler) HotelsHandler(c *gin.Context) {
	var params search.HotelParams
	if !bindSearch(c, &params) {
		return
	}
	res, err := h.Service.Hotels(c.Request.Context(), params)
	if err != nil {
		searchFailed(c, "hotels", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// FoodHandler searches restaurants.
func (h *SearchHandler) FoodHandler(c *gin.Context) {
	var params search.FoodParams
	if !bindSearch(c, &params) {
		return
	}
	res, err := h.Service.Food(c.Request.Context(), params)
	if err != nil {
		searchFailed(c, "food", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// EventsHandler searches events.
func (h *SearchHandler) EventsHandler(c *gin.Context) {
	var params search.EventParams
	if !bindSearch(c, &params) {
		return
	}
	res, err := h.Service.Events(c.Request.Context(), params)
	if err != nil {
		searchFailed(c, "events", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PlacesHandler searches sights, local places and shopping.
func (h *SearchHandler) PlacesHandler(c *gin.Context) {
	var params search.PlaceParams
	if !bindSearch(c, &params) {
		return
	}
	res, err := h.Service.Places(c.Request.Context(), params)
	if err != nil {
		searchFailed(c, "places", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
