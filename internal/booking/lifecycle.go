package booking

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

// Window is the half-open [Start, End) interval a reservation occupies
// on a service.  Boundary code that receives a single date normalizes
// it into a Window before calling the lifecycle.
type Window struct {
    Start time.Time
    End   time.Time
}

// Lifecycle enforces the reservation state machine and triggers exactly
// the side effects each transition requires.  It holds no persistent
// state itself; every operation works on records fetched through the
// injected collaborators.
type Lifecycle struct {
    services ServiceDirectory
    users    UserDirectory
    store    ReservationStore
    notes    NotificationSink
    mail     EmailDispatcher
}

// NewLifecycle constructs a Lifecycle with the given collaborators.
// All dependencies must be non-nil.
func NewLifecycle(services ServiceDirectory, users UserDirectory, store ReservationStore, notes NotificationSink, mail EmailDispatcher) *Lifecycle {
    if services == nil || users == nil || store == nil || notes == nil || mail == nil {
        panic("nil collaborator passed to NewLifecycle")
    }
    return &Lifecycle{
        services: services,
        users:    users,
        store:    store,
        notes:    notes,
        mail:     mail,
    }
}

// Create registers a new PENDING reservation for a client on a service.
// The service must exist and no other reservation may occupy the exact
// same window on it.  On success the service's provider receives an
// in-app notification announcing the request; no email is sent at this
// stage.  The notification is best-effort and never fails the creation.
func (l *Lifecycle) Create(ctx context.Context, clientID, serviceID uint64, w Window) (model.Reservation, error) {
    if !w.End.After(w.Start) {
        return model.Reservation{}, ErrInvalidWindow
    }
    svc, err := l.services.GetService(ctx, serviceID)
    if err != nil {
        return model.Reservation{}, err
    }
    taken, err := l.store.WindowTaken(ctx, serviceID, w.Start.UTC(), w.End.UTC())
    if err != nil {
        return model.Reservation{}, err
    }
    if taken {
        return model.Reservation{}, ErrWindowTaken
    }
    res := model.Reservation{
        ClientID:  clientID,
        ServiceID: serviceID,
        StartsAt:  w.Start.UTC(),
        EndsAt:    w.End.UTC(),
        Status:    model.StatusPending,
    }
    if err := l.store.Create(ctx, &res); err != nil {
        return model.Reservation{}, err
    }
    msg := fmt.Sprintf("New reservation request for %q on %s", svc.Title, fmtWindowDate(res.StartsAt))
    if _, err := l.notes.Create(ctx, svc.ProviderID, msg, res.ID); err != nil {
        log.Printf("booking: notify provider %d for reservation %d failed: %v", svc.ProviderID, res.ID, err)
    }
    return res, nil
}

// Confirm moves a PENDING reservation to CONFIRMED.  The actor must be
// the provider owning the reservation's service.  The client receives
// an in-app notification and a confirmation email; both are best-effort.
func (l *Lifecycle) Confirm(ctx context.Context, reservationID, actorID uint64) (model.Reservation, error) {
    return l.transition(ctx, reservationID, actorID, model.StatusConfirmed)
}

// Cancel moves a PENDING reservation to CANCELLED.  Contract and side
// effects mirror Confirm, with a refusal message and template instead.
func (l *Lifecycle) Cancel(ctx context.Context, reservationID, actorID uint64) (model.Reservation, error) {
    return l.transition(ctx, reservationID, actorID, model.StatusCancelled)
}

// transition applies a single PENDING -> status change.  The guard and
// the write are one conditional update in the store, so two racing
// transitions cannot both apply; the loser observes ErrNotPending.
// Side-effect failures after the committed update are logged and
// swallowed: the reservation's authoritative status is never rolled
// back because a notification or email could not be delivered.
func (l *Lifecycle) transition(ctx context.Context, reservationID, actorID uint64, status string) (model.Reservation, error) {
    res, err := l.store.GetByID(ctx, reservationID)
    if err != nil {
        return model.Reservation{}, err
    }
    svc, err := l.services.GetService(ctx, res.ServiceID)
    if err != nil {
        return model.Reservation{}, err
    }
    if svc.ProviderID != actorID {
        return model.Reservation{}, ErrNotOwner
    }
    if err := l.store.SetStatusIfPending(ctx, reservationID, status); err != nil {
        return model.Reservation{}, err
    }
    res.Status = status
    if got, err := l.store.GetByID(ctx, reservationID); err == nil {
        res = got
    }

    var msg, template string
    switch status {
    case model.StatusConfirmed:
        msg = fmt.Sprintf("Your reservation for %q on %s was confirmed", svc.Title, fmtWindowDate(res.StartsAt))
        template = TemplateReservationConfirmed
    default:
        msg = fmt.Sprintf("Your reservation for %q on %s was refused", svc.Title, fmtWindowDate(res.StartsAt))
        template = TemplateReservationCancelled
    }
    if _, err := l.notes.Create(ctx, res.ClientID, msg, res.ID); err != nil {
        log.Printf("booking: notify client %d for reservation %d failed: %v", res.ClientID, res.ID, err)
    }
    client, err := l.users.GetUser(ctx, res.ClientID)
    if err != nil {
        log.Printf("booking: load client %d for reservation %d email failed: %v", res.ClientID, res.ID, err)
        return res, nil
    }
    args := TemplateArgs{ClientName: client.Name, ServiceTitle: svc.Title, Date: res.StartsAt}
    if err := l.mail.Send(ctx, client.Email, template, args); err != nil {
        log.Printf("booking: dispatch %s email for reservation %d failed: %v", template, res.ID, err)
    }
    return res, nil
}

// ListForProvider returns all reservations made against the provider's
// services, newest-created-first, each with service details and the
// sanitized client view.  Read-only, no side effects.
func (l *Lifecycle) ListForProvider(ctx context.Context, providerID uint64) ([]ReservationView, error) {
    return l.store.ListByProvider(ctx, providerID)
}

// ListForClient returns all reservations created by the client,
// newest-created-first.  Read-only, no side effects.
func (l *Lifecycle) ListForClient(ctx context.Context, clientID uint64) ([]ReservationView, error) {
    return l.store.ListByClient(ctx, clientID)
}

// SendReminders dispatches a reminder email for every CONFIRMED
// reservation whose window starts on the calendar day after now (UTC).
// It never transitions reservation state and keeps no record of having
// reminded; re-running it within the same day re-sends.  Returns the
// number of reminders successfully handed to the dispatcher.
func (l *Lifecycle) SendReminders(ctx context.Context, now time.Time) (int, error) {
    day := now.UTC().Truncate(24 * time.Hour)
    from := day.Add(24 * time.Hour)
    to := day.Add(48 * time.Hour)
    due, err := l.store.ConfirmedStartingBetween(ctx, from, to)
    if err != nil {
        return 0, err
    }
    sent := 0
    for _, v := range due {
        args := TemplateArgs{ClientName: v.Client.Name, ServiceTitle: v.Service.Title, Date: v.StartsAt}
        if err := l.mail.Send(ctx, v.Client.Email, TemplateReservationReminder, args); err != nil {
            log.Printf("booking: dispatch reminder for reservation %d failed: %v", v.ID, err)
            continue
        }
        sent++
    }
    return sent, nil
}

func fmtWindowDate(t time.Time) string {
    return t.UTC().Format("2006-01-02 15:04")
}
