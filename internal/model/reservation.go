package model

import "time"

// Reservation status values.  A reservation starts PENDING and moves
// exactly once to CONFIRMED or CANCELLED; both are terminal.
const (
    StatusPending   = "PENDING"
    StatusConfirmed = "CONFIRMED"
    StatusCancelled = "CANCELLED"
)

// Reservation records a client's request to book a service for a
// specific time window.  The window is a half-open [StartsAt, EndsAt)
// pair; call sites that supply a single date have it normalized into
// a pair before it reaches storage.  All timestamps are stored in UTC.
//
// Fields:
//  ID        – primary key identifier.
//  ClientID  – user who requested the reservation.
//  ServiceID – service being reserved.
//  StartsAt  – beginning of the reserved window.
//  EndsAt    – end of the reserved window (must be after StartsAt).
//  Status    – state of the reservation (PENDING, CONFIRMED,
//              CANCELLED).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
    ID        uint64    // reservations.id
    ClientID  uint64    // reservations.client_id
    ServiceID uint64    // reservations.service_id
    StartsAt  time.Time // reservations.starts_at
    EndsAt    time.Time // reservations.ends_at
    Status    string    // reservations.status
    CreatedAt time.Time // reservations.created_at
    UpdatedAt time.Time // reservations.updated_at
}
