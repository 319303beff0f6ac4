package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/NizarI20/ServiceHub-sub000/internal/booking"
    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

// ReservationRepo provides persistence for reservations.  It
// implements the booking.ReservationStore interface: creation,
// lookups, the window-conflict existence check, the conditional
// status update, the provider/client listings and the reminder
// sweep.  All timestamp fields are assumed to be stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// Create inserts a new reservation and queries the row back to
// populate the generated ID and timestamps.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    const q = `INSERT INTO reservations (client_id, service_id, starts_at, ends_at, status) VALUES (?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, res.ClientID, res.ServiceID, res.StartsAt, res.EndsAt, res.Status)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    const sel = `SELECT id, client_id, service_id, starts_at, ends_at, status, created_at, updated_at FROM reservations WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, res.ID).Scan(
        &res.ID, &res.ClientID, &res.ServiceID, &res.StartsAt, &res.EndsAt,
        &res.Status, &res.CreatedAt, &res.UpdatedAt,
    )
}

// GetByID fetches a reservation.  Unknown IDs are reported as
// booking.ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
    const q = `SELECT id, client_id, service_id, starts_at, ends_at, status, created_at, updated_at FROM reservations WHERE id = ? LIMIT 1`
    var res model.Reservation
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &res.ID, &res.ClientID, &res.ServiceID, &res.StartsAt, &res.EndsAt,
        &res.Status, &res.CreatedAt, &res.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Reservation{}, booking.ErrReservationNotFound
        }
        return model.Reservation{}, err
    }
    return res, nil
}

// WindowTaken reports whether a non-cancelled reservation already
// occupies the exact [start, end) window on the service.  A refused
// reservation frees its window again.
func (r *ReservationRepo) WindowTaken(ctx context.Context, serviceID uint64, start, end time.Time) (bool, error) {
    const q = `SELECT COUNT(*) FROM reservations WHERE service_id = ? AND starts_at = ? AND ends_at = ? AND status <> ?`
    var n int
    if err := r.db.QueryRowContext(ctx, q, serviceID, start, end, model.StatusCancelled).Scan(&n); err != nil {
        return false, err
    }
    return n > 0, nil
}

// SetStatusIfPending applies a status change as a single conditional
// update so the PENDING guard and the write cannot be separated by a
// concurrent transition.  When no row is updated the reservation either
// does not exist (booking.ErrReservationNotFound) or has already left
// PENDING (booking.ErrNotPending).
func (r *ReservationRepo) SetStatusIfPending(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE reservations SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`
    result, err := r.db.ExecContext(ctx, q, status, id, model.StatusPending)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 1 {
        return nil
    }
    if _, err := r.GetByID(ctx, id); err != nil {
        return err
    }
    return booking.ErrNotPending
}

const viewColumns = `r.id, r.status, r.starts_at, r.ends_at, r.created_at,
       s.id, s.title, s.price_cents, s.provider_id,
       u.id, u.name, u.email`

// ListByProvider returns all reservations whose service belongs to the
// provider, newest-created-first, joined with the service and a
// restricted client view (name and email only).
func (r *ReservationRepo) ListByProvider(ctx context.Context, providerID uint64) ([]booking.ReservationView, error) {
    const q = `SELECT ` + viewColumns + `
FROM reservations r
JOIN services s ON s.id = r.service_id
JOIN users u ON u.id = r.client_id
WHERE s.provider_id = ?
ORDER BY r.created_at DESC, r.id DESC`
    return r.queryViews(ctx, q, providerID)
}

// ListByClient returns all reservations created by the client,
// newest-created-first.
func (r *ReservationRepo) ListByClient(ctx context.Context, clientID uint64) ([]booking.ReservationView, error) {
    const q = `SELECT ` + viewColumns + `
FROM reservations r
JOIN services s ON s.id = r.service_id
JOIN users u ON u.id = r.client_id
WHERE r.client_id = ?
ORDER BY r.created_at DESC, r.id DESC`
    return r.queryViews(ctx, q, clientID)
}

// ConfirmedStartingBetween returns confirmed reservations whose window
// starts within [from, to), with client contact details attached for
// reminder dispatch.
func (r *ReservationRepo) ConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]booking.ReservationView, error) {
    const q = `SELECT ` + viewColumns + `
FROM reservations r
JOIN services s ON s.id = r.service_id
JOIN users u ON u.id = r.client_id
WHERE r.status = ? AND r.starts_at >= ? AND r.starts_at < ?
ORDER BY r.starts_at, r.id`
    return r.queryViews(ctx, q, model.StatusConfirmed, from, to)
}

func (r *ReservationRepo) queryViews(ctx context.Context, q string, args ...interface{}) ([]booking.ReservationView, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]booking.ReservationView, 0)
    for rows.Next() {
        var v booking.ReservationView
        if err := rows.Scan(
            &v.ID, &v.Status, &v.StartsAt, &v.EndsAt, &v.CreatedAt,
            &v.Service.ID, &v.Service.Title, &v.Service.PriceCents, &v.Service.ProviderID,
            &v.Client.ID, &v.Client.Name, &v.Client.Email,
        ); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    return out, rows.Err()
}
