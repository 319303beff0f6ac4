package booking

import (
    "context"
    "time"

    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

// ServiceDirectory is the read-only lookup of service records the
// lifecycle needs for existence checks and ownership verification.
// Implementations return ErrServiceNotFound for unknown IDs.
type ServiceDirectory interface {
    GetService(ctx context.Context, id uint64) (model.Service, error)
}

// UserDirectory resolves a user's name and email for message templating
// and the sanitized client view in listings.
type UserDirectory interface {
    GetUser(ctx context.Context, id uint64) (model.User, error)
}

// ReservationStore is the persistence surface of the lifecycle.
// SetStatusIfPending must apply the status change as a single
// conditional update ("set status where id and status=PENDING") and
// return ErrNotPending when no row matched, so that concurrent
// transitions cannot both apply.
type ReservationStore interface {
    Create(ctx context.Context, res *model.Reservation) error
    GetByID(ctx context.Context, id uint64) (model.Reservation, error)
    WindowTaken(ctx context.Context, serviceID uint64, start, end time.Time) (bool, error)
    SetStatusIfPending(ctx context.Context, id uint64, status string) error
    ListByProvider(ctx context.Context, providerID uint64) ([]ReservationView, error)
    ListByClient(ctx context.Context, clientID uint64) ([]ReservationView, error)
    ConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]ReservationView, error)
}

// NotificationSink persists in-app notifications.  Failures are treated
// as best-effort by the lifecycle: they are logged and never abort a
// committed transition.
type NotificationSink interface {
    Create(ctx context.Context, recipientID uint64, message string, reservationID uint64) (model.Notification, error)
}

// Email template names recognized by EmailDispatcher implementations.
const (
    TemplateReservationConfirmed = "reservation_confirmed"
    TemplateReservationCancelled = "reservation_cancelled"
    TemplateReservationReminder  = "reservation_reminder"
)

// TemplateArgs carries the values every reservation email template
// interpolates.
type TemplateArgs struct {
    ClientName   string    `json:"client_name"`
    ServiceTitle string    `json:"service_title"`
    Date         time.Time `json:"date"`
}

// EmailDispatcher sends a templated email.  Like NotificationSink it is
// fire-and-forget from the lifecycle's perspective.
type EmailDispatcher interface {
    Send(ctx context.Context, toEmail, template string, args TemplateArgs) error
}

// ServiceSummary is the slice of a service embedded in reservation
// listings.
type ServiceSummary struct {
    ID         uint64 `json:"id"`
    Title      string `json:"title"`
    PriceCents uint32 `json:"price_cents"`
    ProviderID uint64 `json:"provider_id"`
}

// ClientSummary is the restricted view of the reserving client exposed
// to providers: name and email only, never credentials.
type ClientSummary struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
}

// ReservationView is a reservation joined with its service and a
// sanitized client, as returned by the listing queries and the
// reminder sweep.
type ReservationView struct {
    ID        uint64         `json:"id"`
    Status    string         `json:"status"`
    StartsAt  time.Time      `json:"starts_at"`
    EndsAt    time.Time      `json:"ends_at"`
    CreatedAt time.Time      `json:"created_at"`
    Service   ServiceSummary `json:"service"`
    Client    ClientSummary  `json:"client"`
}
