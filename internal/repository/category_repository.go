package repository

import (
    "context"
    "database/sql"

    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

// CategoryRepo reads the `categories` table.  Categories are a small,
// mostly static set used for browsing and for validating the category
// a provider attaches to a service.
type CategoryRepo struct {
    db *sql.DB
}

// NewCategoryRepo returns a new CategoryRepo bound to the given database.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// ListAll returns every category ordered by name.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Category, 0)
    for rows.Next() {
        var cat model.Category
        if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
            return nil, err
        }
        out = append(out, cat)
    }
    return out, rows.Err()
}

// Exists reports whether a category with the given id is defined.
func (r *CategoryRepo) Exists(ctx context.Context, id uint64) (bool, error) {
    var n int
    err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE id = ?`, id).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}
