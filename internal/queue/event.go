// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationEmailEvent is published whenever the reservation lifecycle
// wants an email delivered: a confirmation, a refusal, or a next-day
// reminder. It carries everything the consumer needs to render and send
// the message without querying the primary database.
type ReservationEmailEvent struct {
    To           string `json:"to"`
    Template     string `json:"template"`
    ClientName   string `json:"client_name"`
    ServiceTitle string `json:"service_title"`
    StartsAt     string `json:"starts_at"`
    QueuedAt     string `json:"queued_at"`
}
