package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	itineraryRepo "itinera/database/repository/itinerary"
	"itinera/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	itineraryRepo.ItineraryRepository
	docs map[string]*models.Itinerary
	err  error
}

func (r *stubRepo) GetByID(id string) (*models.Itinerary, error) {
	if r.err != nil {
		return nil, r.err
	}
	it, ok := r.docs[id]
	if !ok {
		return nil, itineraryRepo.ErrNotFound
	}
	return it, nil
}

func bookedTask(t *testing.T, p models.BookedPayload) *asynq.Task {
	b, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(models.TaskItineraryBooked, b)
}

func TestHandleBookedTask(t *testing.T) {
	repo := &stubRepo{docs: map[string]*models.Itinerary{
		"it-1": {ID: "it-1", IsBooked: true, Booking: &models.BookingRecord{Reference: "ABC123"}},
		"it-2": {ID: "it-2"},
	}}
	handle := handleBookedTask(repo, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name      string
		task      *asynq.Task
		skipRetry bool
	}{
		{"confirmed", bookedTask(t, models.BookedPayload{ItineraryID: "it-1", Reference: "ABC123", OrderID: "o-1"}), false},
		{"bad payload", asynq.NewTask(models.TaskItineraryBooked, []byte("{")), true},
		{"missing itinerary", bookedTask(t, models.BookedPayload{ItineraryID: "gone", Reference: "ABC123"}), true},
		{"not booked", bookedTask(t, models.BookedPayload{ItineraryID: "it-2", Reference: "ABC123"}), true},
		{"other reference", bookedTask(t, models.BookedPayload{ItineraryID: "it-1", Reference: "ZZZ999"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handle(ctx, tt.task)
			if !tt.skipRetry {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestHandleBookedTaskRetriesStoreErrors(t *testing.T) {
	repo := &stubRepo{err: errors.New("connection reset")}
	err := handleBookedTask(repo, zap.NewNop())(context.Background(),
		bookedTask(t, models.BookedPayload{ItineraryID: "it-1", Reference: "ABC123"}))

	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
