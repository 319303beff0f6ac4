package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/NizarI20/ServiceHub-sub000/internal/booking"
    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

// ServiceRepo provides CRUD operations for provider services.  A
// service is owned by exactly one provider; all mutating operations
// enforce ownership in the WHERE clause rather than by a separate
// read, so a non-owner can never race an owner's update.  All
// timestamp fields are assumed to be stored in UTC.
type ServiceRepo struct {
    db *sql.DB
}

// NewServiceRepo returns a new ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

// DB exposes the underlying handle for callers that need to start
// transactions spanning multiple repositories.
func (r *ServiceRepo) DB() *sql.DB { return r.db }

// ServiceFilter narrows the public listing.  Zero values mean no
// filtering on that dimension.
type ServiceFilter struct {
    CategoryID    uint64
    Query         string // matched against title and description
    OnlyAvailable bool
}

// Create inserts a new service owned by the given provider and reads
// back the generated ID and timestamps.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
    const q = `INSERT INTO services (provider_id, category_id, title, description, price_cents, is_available, condition_text, image_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q,
        s.ProviderID, s.CategoryID, s.Title, s.Description, s.PriceCents, s.IsAvailable, s.ConditionText, s.ImageURL)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    got, err := r.GetByID(ctx, s.ID)
    if err != nil {
        return err
    }
    s.CreatedAt = got.CreatedAt
    s.UpdatedAt = got.UpdatedAt
    return nil
}

// GetByID fetches a single service.  Unknown IDs are reported as
// booking.ErrServiceNotFound so the lifecycle and handlers share one
// sentinel.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
    const q = `SELECT id, provider_id, category_id, title, description, price_cents, is_available, condition_text, image_url, created_at, updated_at FROM services WHERE id = ? LIMIT 1`
    var (
        s        model.Service
        imageURL sql.NullString
    )
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.ProviderID, &s.CategoryID, &s.Title, &s.Description,
        &s.PriceCents, &s.IsAvailable, &s.ConditionText, &imageURL,
        &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Service{}, booking.ErrServiceNotFound
        }
        return model.Service{}, err
    }
    if imageURL.Valid {
        u := imageURL.String
        s.ImageURL = &u
    }
    return s, nil
}

// GetService adapts GetByID to the directory shape the booking core
// expects.
func (r *ServiceRepo) GetService(ctx context.Context, id uint64) (model.Service, error) {
    return r.GetByID(ctx, id)
}

// Update rewrites the mutable fields of a service when it is owned by
// providerID.  When zero rows match, the error is disambiguated into
// booking.ErrServiceNotFound or ErrForbidden by a follow-up read.
func (r *ServiceRepo) Update(ctx context.Context, providerID uint64, s *model.Service) error {
    const q = `UPDATE services SET category_id=?, title=?, description=?, price_cents=?, is_available=?, condition_text=?, image_url=? WHERE id=? AND provider_id=?`
    result, err := r.db.ExecContext(ctx, q,
        s.CategoryID, s.Title, s.Description, s.PriceCents, s.IsAvailable, s.ConditionText, s.ImageURL,
        s.ID, providerID)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        owned, err := r.GetByID(ctx, s.ID)
        if err != nil {
            return err
        }
        if owned.ProviderID != providerID {
            return ErrForbidden
        }
        // Row matched but nothing changed; treat as success.
    }
    return nil
}

// Delete removes a service owned by providerID.  Services with
// reservations against them cannot be deleted and yield ErrConflict.
func (r *ServiceRepo) Delete(ctx context.Context, id, providerID uint64) error {
    svc, err := r.GetByID(ctx, id)
    if err != nil {
        return err
    }
    if svc.ProviderID != providerID {
        return ErrForbidden
    }
    var n int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE service_id = ?`, id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM services WHERE id = ? AND provider_id = ?`, id, providerID)
    return err
}

// List returns services matching the filter, newest first.
func (r *ServiceRepo) List(ctx context.Context, f ServiceFilter) ([]model.Service, error) {
    var (
        sb   strings.Builder
        args []interface{}
    )
    sb.WriteString(`SELECT id, provider_id, category_id, title, description, price_cents, is_available, condition_text, image_url, created_at, updated_at FROM services WHERE 1=1`)
    if f.CategoryID != 0 {
        sb.WriteString(` AND category_id = ?`)
        args = append(args, f.CategoryID)
    }
    if q := strings.TrimSpace(f.Query); q != "" {
        sb.WriteString(` AND (title LIKE ? OR description LIKE ?)`)
        like := "%" + q + "%"
        args = append(args, like, like)
    }
    if f.OnlyAvailable {
        sb.WriteString(` AND is_available = 1`)
    }
    sb.WriteString(` ORDER BY created_at DESC, id DESC`)
    return r.queryServices(ctx, sb.String(), args...)
}

// ListByProvider returns all services owned by a provider, newest first.
func (r *ServiceRepo) ListByProvider(ctx context.Context, providerID uint64) ([]model.Service, error) {
    const q = `SELECT id, provider_id, category_id, title, description, price_cents, is_available, condition_text, image_url, created_at, updated_at FROM services WHERE provider_id = ? ORDER BY created_at DESC, id DESC`
    return r.queryServices(ctx, q, providerID)
}

func (r *ServiceRepo) queryServices(ctx context.Context, q string, args ...interface{}) ([]model.Service, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Service, 0)
    for rows.Next() {
        var (
            s        model.Service
            imageURL sql.NullString
        )
        if err := rows.Scan(
            &s.ID, &s.ProviderID, &s.CategoryID, &s.Title, &s.Description,
            &s.PriceCents, &s.IsAvailable, &s.ConditionText, &imageURL,
            &s.CreatedAt, &s.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        if imageURL.Valid {
            u := imageURL.String
            s.ImageURL = &u
        }
        out = append(out, s)
    }
    return out, rows.Err()
}
