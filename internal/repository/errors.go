// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrForbidden indicates that the current user is not the owner
// of a reservation, while ErrSpotOccupied signals that an occupy attempt
// lost the race for a spot.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as vacating another user's reservation.
// Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrSpotOccupied is returned when an occupy attempt targets a spot whose
// status is not Available.  Handlers translate this into HTTP 409.
var ErrSpotOccupied = errors.New("spot occupied")

// ErrAlreadyClosed is returned when a vacate targets a reservation whose
// leaving time is already set.  Handlers translate this into HTTP 409.
var ErrAlreadyClosed = errors.New("reservation already closed")

// ErrInvalidInput is returned when provisioning receives a non-positive
// rate or spot count.  Handlers translate this into HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrLotNotFound is returned when a parking lot lookup fails.
var ErrLotNotFound = errors.New("parking lot not found")

// ErrSpotNotFound is returned when a parking spot lookup fails.
var ErrSpotNotFound = errors.New("parking spot not found")

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = errors.New("user not found")
