package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"itinera/config"
	itineraryRepo "itinera/database/repository/itinerary"
	"itinera/models"
	"itinera/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection shared by the worker and the task client.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitBookingWorker runs the booking-confirmation worker in background and
// returns the server so the caller can shut it down.
func InitBookingWorker(ctx context.Context, repo itineraryRepo.ItineraryRepository, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(models.TaskItineraryBooked, handleBookedTask(repo, logger))

	go monitorRedisConnection(ctx, logger)

	go func() {
		logger.Info("Starting booking worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Booking worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Booking worker gave up after max retry attempts")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

// handleBookedTask confirms a committed booking. Payloads that can never succeed
// skip asynq's retries; store errors are retried.
func handleBookedTask(repo itineraryRepo.ItineraryRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookedPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid booked payload", zap.Error(err))
			return fmt.Errorf("decode booked payload: %v: %w", err, asynq.SkipRetry)
		}

		it, err := repo.GetByID(p.ItineraryID)
		if errors.Is(err, itineraryRepo.ErrNotFound) {
			logger.Warn("Booked itinerary no longer exists", zap.String("itineraryId", p.ItineraryID))
			return fmt.Errorf("itinerary %s: %w", p.ItineraryID, asynq.SkipRetry)
		}
		if err != nil {
			return fmt.Errorf("load itinerary %s: %w", p.ItineraryID, err)
		}

		if !it.IsBooked || it.Booking == nil || it.Booking.Reference != p.Reference {
			logger.Warn("Booked task does not match stored booking",
				zap.String("itineraryId", p.ItineraryID),
				zap.String("reference", p.Reference))
			return fmt.Errorf("itinerary %s booking mismatch: %w", p.ItineraryID, asynq.SkipRetry)
		}

		logger.Info("Booking confirmed",
			zap.String("itineraryId", it.ID),
			zap.String("title", it.Title),
			zap.String("reference", it.Booking.Reference),
			zap.String("orderId", p.OrderID),
			zap.Int("travelers", it.Booking.Travelers))
		utils.BookingConfirmations.Inc()
		return nil
	}
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
