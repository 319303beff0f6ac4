package model

import "time"

// Notification is an in-app record informing a user of a reservation
// state change.  Exactly one notification is written per transition:
// the provider is notified when a request is created, the client when
// the provider confirms or refuses it.  Notifications are created
// unread and only ever mutated by the recipient marking them read.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – recipient of the notification.
//  ReservationID – originating reservation (informational back-reference).
//  Message       – human-readable message text.
//  IsRead        – whether the recipient has seen the notification.
//  CreatedAt     – creation timestamp.
type Notification struct {
    ID            uint64    // notifications.id
    UserID        uint64    // notifications.user_id
    ReservationID uint64    // notifications.reservation_id
    Message       string    // notifications.message
    IsRead        bool      // notifications.is_read
    CreatedAt     time.Time // notifications.created_at
}
