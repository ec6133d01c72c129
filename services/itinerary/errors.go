package itinerary

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrReferenceNotFound means a selection key is not in the provider cache;
	// the client should search again.
	ErrReferenceNotFound = errors.New("selected result not found, please search again")
	// ErrInvalidOperation means a state precondition was violated.
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrNoFlightSelected  = errors.New("no flight selected")
	ErrNotPriced         = errors.New("itinerary has not been priced")
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrNotMember         = errors.New("user is not a member of this itinerary")

	ErrIncompleteTravelerInfo = errors.New("traveler info is incomplete")
	ErrMissingTravelerInfo    = errors.New("traveler info is missing")
	ErrTravelerCountMismatch  = errors.New("traveler count does not match the priced offer")
	ErrProvider               = errors.New("provider error")
	ErrBookingFailed          = errors.New("booking failed")
)

// invalid wraps ErrInvalidOperation with what was attempted.
func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

// IncompleteTravelerInfoError carries every traveler problem found. Missing
// names the members who have not submitted traveler info at all.
type IncompleteTravelerInfoError struct {
	Errors  []string
	Missing []string
}

func (e *IncompleteTravelerInfoError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncompleteTravelerInfo, strings.Join(e.Errors, "; "))
}

func (e *IncompleteTravelerInfoError) Is(target error) bool {
	if target == ErrMissingTravelerInfo {
		return len(e.Missing) > 0
	}
	return target == ErrIncompleteTravelerInfo
}

// TravelerCountMismatchError names the priced and the rostered traveler counts.
type TravelerCountMismatchError struct {
	Expected int
	Actual   int
}

func (e *TravelerCountMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d travelers, itinerary has %d", ErrTravelerCountMismatch, e.Expected, e.Actual)
}

func (e *TravelerCountMismatchError) Is(target error) bool {
	return target == ErrTravelerCountMismatch
}

// ProviderError passes an external provider failure through unchanged.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// BookingFailedError is returned when the provider rejected the flight order.
// The itinerary is left priced and can be booked again.
type BookingFailedError struct {
	Err error
}

func (e *BookingFailedError) Error() string {
	return fmt.Sprintf("%s: %v", ErrBookingFailed, e.Err)
}

func (e *BookingFailedError) Is(target error) bool {
	return target == ErrBookingFailed
}

func (e *BookingFailedError) Unwrap() error {
	return e.Err
}
