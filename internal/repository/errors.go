// Package repository defines error types that are reused across
// multiple repositories. These sentinel values let higher layers
// such as handlers distinguish failure scenarios: a missing booking
// maps to HTTP 404, a status precondition violation to 400, an
// ownership mismatch to 403.
package repository

import "errors"

// ErrBookingNotFound is returned when no booking exists for the
// given identifier.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPassengerNotFound is returned when the caller has no passenger
// profile or a referenced passenger row is missing.
var ErrPassengerNotFound = errors.New("passenger not found")

// ErrCoolieNotFound is returned when the caller has no coolie
// profile or a referenced coolie row is missing.
var ErrCoolieNotFound = errors.New("coolie not found")

// ErrStationNotFound is returned when no station exists for the
// given identifier or code.
var ErrStationNotFound = errors.New("station not found")

// ErrNoAvailableCoolie is returned by the assignment claim when no
// coolie is both available and KYC-verified, or when a concurrent
// assignment won the claim first.
var ErrNoAvailableCoolie = errors.New("no available coolie")

// ErrInvalidBookingState is returned when a lifecycle operation is
// attempted against a booking whose status does not permit it, e.g.
// assigning a booking that is no longer PENDING.
var ErrInvalidBookingState = errors.New("invalid booking state")

// ErrForbidden is returned when the caller attempts an operation on
// a resource they are not party to. Handlers translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
