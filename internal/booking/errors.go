// Package booking implements the reservation lifecycle: creation with
// window-conflict detection, provider-side confirm/cancel transitions,
// and the notification/email side effects each transition triggers.
// Storage and delivery are reached through narrow interfaces injected at
// construction so the state machine can be exercised with fakes.
package booking

import "errors"

// ErrServiceNotFound is returned when the referenced service does not
// exist.  Handlers should translate this into an HTTP 404 response.
var ErrServiceNotFound = errors.New("service not found")

// ErrReservationNotFound is returned when the referenced reservation
// does not exist.  Handlers should translate this into an HTTP 404
// response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrWindowTaken is returned when another reservation already occupies
// the exact requested window for the same service.  Handlers should
// translate this into an HTTP 400 response.
var ErrWindowTaken = errors.New("requested window already reserved")

// ErrNotPending is returned when a confirm or cancel is attempted on a
// reservation that is no longer PENDING.  Handlers should translate
// this into an HTTP 400 response.
var ErrNotPending = errors.New("reservation is not pending")

// ErrNotOwner is returned when the acting user does not own the
// service a reservation was made against.  Handlers should translate
// this into an HTTP 403 response.
var ErrNotOwner = errors.New("actor does not own the service")

// ErrInvalidWindow is returned when a reservation window does not
// satisfy end > start.
var ErrInvalidWindow = errors.New("window end must be after start")
