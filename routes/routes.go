package routes

import (
	"net/http"
	"time"

	"itinera/config"
	"itinera/handlers"
	"itinera/middleware"
	"itinera/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterItineraryRoutes registers itinerary endpoints. All of them require authentication.
func RegisterItineraryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.ItineraryHandler
	api := r.Group("/api/itineraries")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache))
		api.POST("", h.CreateItineraryHandler)
		api.GET("", h.ListItinerariesHandler)
		api.GET("/:id", h.GetItineraryHandler)

		api.POST("/:id/members", h.AddMemberHandler)
		api.PUT("/:id/traveler-info", h.UpdateTravelerInfoHandler)
		api.GET("/:id/travelers/check", h.CheckTravelersHandler)

		api.PUT("/:id/flights/:slot", h.AttachFlightHandler)
		api.DELETE("/:id/flights/:slot", h.DetachFlightHandler)

		api.POST("/:id/items/:collection", h.AddItemHandler)
		api.DELETE("/:id/items/:collection/:itemId", h.RemoveItemHandler)

		api.POST("/:id/pricing", h.ConfirmPricingHandler)
		api.POST("/:id/book", h.BookHandler)
		api.POST("/:id/checkout", h.CheckoutHandler)
	}
}

// RegisterSearchRoutes registers search endpoints.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.SearchHandler
	api := r.Group("/api/search")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo, hb.AuthCache))
		api.POST("/flights", h.FlightsHandler)
		api.POST("/return-flights", h.ReturnFlightsHandler)
		api.POST("/hotels", h.HotelsHandler)
		api.POST("/food", h.FoodHandler)
		api.POST("/events", h.EventsHandler)
		api.POST("/places", h.PlacesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the health monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.CheckedAt.IsZero() && !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "Hi, I'm Itinera"})
	})
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	RegisterItineraryRoutes(r, hb)
	RegisterSearchRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}
