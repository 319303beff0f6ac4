package repository

import (
    "context"
    "database/sql"

    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

// NotificationRepo persists in-app notifications.  Rows are created
// unread; the only mutation is the recipient marking one read.
type NotificationRepo struct {
    db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts an unread notification and reads the row back to
// populate the generated ID and creation timestamp.
func (r *NotificationRepo) Create(ctx context.Context, recipientID uint64, message string, reservationID uint64) (model.Notification, error) {
    const q = `INSERT INTO notifications (user_id, reservation_id, message) VALUES (?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, recipientID, reservationID, message)
    if err != nil {
        return model.Notification{}, err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return model.Notification{}, err
    }
    const sel = `SELECT id, user_id, reservation_id, message, is_read, created_at FROM notifications WHERE id = ?`
    var n model.Notification
    err = r.db.QueryRowContext(ctx, sel, uint64(id)).Scan(
        &n.ID, &n.UserID, &n.ReservationID, &n.Message, &n.IsRead, &n.CreatedAt,
    )
    return n, err
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
    const q = `SELECT id, user_id, reservation_id, message, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Notification, 0)
    for rows.Next() {
        var n model.Notification
        if err := rows.Scan(&n.ID, &n.UserID, &n.ReservationID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, n)
    }
    return out, rows.Err()
}

// MarkRead flags a notification as read.  It returns sql.ErrNoRows
// when the notification does not exist and ErrForbidden when it
// belongs to another user.  Marking an already-read notification is a
// no-op.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
    var owner uint64
    if err := r.db.QueryRowContext(ctx,
        `SELECT user_id FROM notifications WHERE id = ? LIMIT 1`, id).Scan(&owner); err != nil {
        return err
    }
    if owner != userID {
        return ErrForbidden
    }
    _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
    return err
}
