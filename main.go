package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itinera/config"
	"itinera/cron"
	"itinera/database"
	itineraryRepo "itinera/database/repository/itinerary"
	userRepoPkg "itinera/database/repository/user"
	"itinera/handlers"
	"itinera/middleware"
	"itinera/routes"
	"itinera/services/gds"
	"itinera/services/itinerary"
	"itinera/services/payment"
	"itinera/services/providercache"
	"itinera/services/search"
	"itinera/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient, time.Minute)

	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	itinRepo := itineraryRepo.NewMongoItineraryRepo()

	// provider result cache.
	cache, err := providercache.New(providercache.Settings{
		Backend:  config.AppConfig.ProviderCacheBackend,
		Capacity: config.AppConfig.ProviderCacheCapacity,
		TTL:      config.AppConfig.ProviderCacheTTL,
	}, utils.GetCacheClient())
	if err != nil {
		logger.Fatal("main: failed to build provider cache", zap.Error(err))
	}

	// external providers.
	serp := search.NewSerpClient(config.AppConfig.SerpAPIBaseURL, config.AppConfig.SerpAPIKey, cache, logger)
	amadeus := gds.NewAmadeusClient(rootCtx, gds.AmadeusConfig{
		ClientID:     config.AppConfig.AmadeusClientID,
		ClientSecret: config.AppConfig.AmadeusClientSecret,
		BaseURL:      config.AppConfig.AmadeusBaseURL,
		TokenURL:     config.AppConfig.AmadeusTokenURL,
	}, logger)

	taskClient := asynq.NewClient(cron.RedisOpt())
	defer taskClient.Close()

	// services.
	itinerarySvc := itinerary.NewItineraryService(itinRepo, userRepo, cache, amadeus, taskClient, itinerary.Operator{
		FirstName:   config.AppConfig.OperatorFirstName,
		LastName:    config.AppConfig.OperatorLastName,
		Company:     config.AppConfig.OperatorCompany,
		Email:       config.AppConfig.OperatorEmail,
		PhoneCode:   config.AppConfig.OperatorPhoneCode,
		PhoneNumber: config.AppConfig.OperatorPhoneNumber,
		Address:     config.AppConfig.OperatorAddress,
		PostalCode:  config.AppConfig.OperatorPostalCode,
		City:        config.AppConfig.OperatorCity,
		Country:     config.AppConfig.OperatorCountry,
		Remark:      config.AppConfig.BookingRemark,
	}, logger)
	checkoutSvc := payment.NewStripeCheckoutService(config.AppConfig.ClientURL, logger)

	worker := cron.InitBookingWorker(rootCtx, itinRepo, logger)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	handlerBundle := &handlers.HandlerBundle{
		UserRepo:         userRepo,
		AuthCache:        utils.GetCacheClient(),
		ItineraryHandler: handlers.NewItineraryHandler(itinerarySvc, checkoutSvc),
		SearchHandler:    handlers.NewSearchHandler(serp),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	stop()
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: failed to close MongoDB", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
