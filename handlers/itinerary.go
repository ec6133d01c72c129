package handlers

import (
	"net/http"
	"strconv"

	"itinera/models"
	"itinera/services/itinerary"
	"itinera/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ItineraryHandler serves the itinerary endpoints. Every route except create and
// list acts on /:id and is restricted to members of that itinerary.
type ItineraryHandler struct {
	Service  itinerary.ItineraryService
	Checkout payment.CheckoutService
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(svc itinerary.ItineraryService, checkout payment.CheckoutService) *ItineraryHandler {
	return &ItineraryHandler{Service: svc, Checkout: checkout}
}

type createItineraryRequest struct {
	Title string `json:"title" binding:"required"`
}

type addMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type flightSelectionRequest struct {
	FlightKey string `json:"flightKey" binding:"required"`
}

type itemSelectionRequest struct {
	Key string `json:"key" binding:"required"`
}

// member loads the itinerary at :id and checks the caller is on its roster.
func (h *ItineraryHandler) member(c *gin.Context) (*models.Itinerary, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	it, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeItineraryError(c, err)
		return nil, false
	}
	if _, ok := it.Member(userID); !ok {
		writeItineraryError(c, itinerary.ErrNotMember)
		return nil, false
	}
	return it, true
}

// respond writes the itinerary or maps the error.
func respond(c *gin.Context, status int, it *models.Itinerary, err error) {
	if err != nil {
		writeItineraryError(c, err)
		return
	}
	c.JSON(status, it)
}

// CreateItineraryHandler starts a new itinerary with the caller as admin.
func (h *ItineraryHandler) CreateItineraryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	it, err := h.Service.Create(c.Request.Context(), userID, req.Title)
	if err == nil {
		getLogger(c).Info("Itinerary created", zap.String("itineraryId", it.ID), zap.String("userId", userID))
	}
	respond(c, http.StatusCreated, it, err)
}

// ListItinerariesHandler lists the caller's itineraries, optionally filtered by ?booked=.
func (h *ItineraryHandler) ListItinerariesHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var booked *bool
	if raw := c.Query("booked"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "booked must be true or false"})
			return
		}
		booked = &v
	}
	list, err := h.Service.ListForUser(c.Request.Context(), userID, booked)
	if err != nil {
		writeItineraryError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetItineraryHandler returns the itinerary with its roster populated.
func (h *ItineraryHandler) GetItineraryHandler(c *gin.Context) {
	it, ok := h.member(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, it)
}

// AddMemberHandler adds a user to the roster.
func (h *ItineraryHandler) AddMemberHandler(c *gin.Context) {
	if _, ok := h.member(c); !ok {
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	it, err := h.Service.AddMember(c.Request.Context(), c.Param("id"), req.UserID)
	respond(c, http.StatusOK, it, err)
}

// UpdateTravelerInfoHandler stores the caller's own traveler info.
func (h *ItineraryHandler) UpdateTravelerInfoHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var info models.TravelerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	it, err := h.Service.UpdateTravelerInfo(c.Request.Context(), c.Param("id"), userID, &info)
	respond(c, http.StatusOK, it, err)
}

// AttachFlightHandler selects a cached flight into the :slot ("outbound" or "return").
func (h *ItineraryHandler) AttachFlightHandler(c *gin.Context) {
	if _, ok := h.member(c); !ok {
		return
	}
	var req flightSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	var it *models.Itinerary
	var err error
	switch c.Param("slot") {
	case "outbound":
		it, err = h.Service.AttachOutbound(ctx, id, req.FlightKey)
	case "return":
		it, err = h.Service.AttachReturn(ctx, id, req.FlightKey)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown flight slot"})
		return
	}
	respond(c, http.StatusOK, it, err)
}

// DetachFlightHandler clears the :slot.
func (h *ItineraryHandler) DetachFlightHandler(c *gin.Context) {
	if _, ok := h.member(c); !ok {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	var it *models.Itinerary
	var err error
	switch c.Param("slot") {
	case "outbound":
		it, err = h.Service.DetachOutbound(ctx, id)
	case "return":
		it, err = h.Service.DetachReturn(ctx, id)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown flight slot"})
		return
	}
	respond(c, http.StatusOK, it, err)
}

func collectionParam(c *gin.Context) (models.Collection, bool) {
	coll, ok := models.ParseCollection(c.Param("collection"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown collection"})
	}
	return coll, ok
}

// AddItemHandler adds a cached search result to a collection by its provider key.
func (h *ItineraryHandler) AddItemHandler(c *gin.Context) {
	if _, ok := h.member(c); !ok {
		return
	}
	coll, ok := collectionParam(c)
	if !ok {
		return
	}
	var req itemSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	it, err := h.Service.AddItemByKey(c.Request.Context(), c.Param("id"), coll, req.Key)
	respond(c, http.StatusOK, it, err)
}

// RemoveItemHandler removes a collection item by its stored id.
func (h *ItineraryHandler) RemoveItemHandler(c *gin.Context) {
	if _, ok := h.member(c); !ok {
		return
	}
	coll, ok := collectionParam(c)
	if !ok {
		return
	}
	it, err := h.Service.RemoveItem(c.Request.Context(), c.Param("id"), coll, c.Param("itemId"))
	respond(c, http.StatusOK, it, err)
}

// CheckTravelersHandler reports every missing or invalid traveler field.
func (h *ItineraryHandler) CheckTravelersHandler(c *gin.Context) {
	if _, ok := h.member(c); !ok {
		return
	}
	problems, err := h.Service.CheckAllTravelerInfoIsProvided(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeItineraryError(c, err)
		return
	}
	if problems == nil {
		problems = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"complete": len(problems) == 0, "errors": problems})
}

// ConfirmPricingHandler prices the attached flights with the GDS.
func (h *ItineraryHandler) ConfirmPricingHandler(c *gin.Context) {
	if _, ok := h.member(c); !ok {
		return
	}
	it, err := h.Service.ConfirmPricing(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, it, err)
}

// BookHandler books the priced itinerary on behalf of the caller.
func (h *ItineraryHandler) BookHandler(c *gin.Context) {
	if _, ok := h.member(c); !ok {
		return
	}
	it, err := h.Service.Book(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err == nil {
		getLogger(c).Info("Itinerary booked",
			zap.String("itineraryId", it.ID),
			zap.String("reference", it.Booking.Reference))
	}
	respond(c, http.StatusOK, it, err)
}

// CheckoutHandler opens a payment session for the priced total.
func (h *ItineraryHandler) CheckoutHandler(c *gin.Context) {
	it, ok := h.member(c)
	if !ok {
		return
	}
	session, err := h.Checkout.CreateCheckoutSession(c.Request.Context(), it)
	if err != nil {
		writeItineraryError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
