package handlers

import (
	"errors"
	"net/http"

	"itinera/services/itinerary"
	"itinera/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeItineraryError maps service errors onto HTTP responses.
func writeItineraryError(c *gin.Context, err error) {
	logger := getLogger(c)

	var incomplete *itinerary.IncompleteTravelerInfoError
	var mismatch *itinerary.TravelerCountMismatchError

	switch {
	case errors.As(err, &incomplete):
		utils.JSONErrorList(c, http.StatusUnprocessableEntity, "Traveler info is incomplete", incomplete.Errors)
	case errors.As(err, &mismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":  "Traveler count does not match the priced offer",
			"details":  err.Error(),
			"expected": mismatch.Expected,
			"actual":   mismatch.Actual,
		})
	case errors.Is(err, itinerary.ErrReferenceNotFound), errors.Is(err, itinerary.ErrItineraryNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, itinerary.ErrNotMember):
		utils.JSONError(c, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, itinerary.ErrInvalidOperation),
		errors.Is(err, itinerary.ErrNoFlightSelected),
		errors.Is(err, itinerary.ErrNotPriced):
		utils.JSONError(c, http.StatusConflict, "Invalid operation", err.Error())
	case errors.Is(err, itinerary.ErrBookingFailed):
		logger.Warn("Booking rejected by provider", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Booking failed", err.Error())
	case errors.Is(err, itinerary.ErrProvider):
		logger.Error("Provider call failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Provider error", err.Error())
	default:
		logger.Error("Unhandled itinerary error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// currentUserID returns the id set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		getLogger(c).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
