package repository

import (
    "context"
    "database/sql"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/NizarI20/ServiceHub-sub000/internal/booking"
    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

func newMockRepo(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewReservationRepo(db), mock
}

func reservationRow(id uint64, status string, at time.Time) *sqlmock.Rows {
    return sqlmock.NewRows([]string{"id", "client_id", "service_id", "starts_at", "ends_at", "status", "created_at", "updated_at"}).
        AddRow(id, 20, 100, at, at.Add(time.Hour), status, at, at)
}

func TestSetStatusIfPending_Applies(t *testing.T) {
    repo, mock := newMockRepo(t)

    mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`)).
        WithArgs(model.StatusConfirmed, 1, model.StatusPending).
        WillReturnResult(sqlmock.NewResult(0, 1))

    err := repo.SetStatusIfPending(context.Background(), 1, model.StatusConfirmed)
    assert.NoError(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusIfPending_AlreadyDecided(t *testing.T) {
    repo, mock := newMockRepo(t)
    at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

    mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET status = ?`)).
        WithArgs(model.StatusCancelled, 1, model.StatusPending).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, client_id, service_id, starts_at, ends_at, status, created_at, updated_at FROM reservations WHERE id = ?`)).
        WithArgs(1).
        WillReturnRows(reservationRow(1, model.StatusConfirmed, at))

    err := repo.SetStatusIfPending(context.Background(), 1, model.StatusCancelled)
    assert.ErrorIs(t, err, booking.ErrNotPending)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusIfPending_MissingReservation(t *testing.T) {
    repo, mock := newMockRepo(t)

    mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET status = ?`)).
        WithArgs(model.StatusConfirmed, 42, model.StatusPending).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(regexp.QuoteMeta(`FROM reservations WHERE id = ?`)).
        WithArgs(42).
        WillReturnError(sql.ErrNoRows)

    err := repo.SetStatusIfPending(context.Background(), 42, model.StatusConfirmed)
    assert.ErrorIs(t, err, booking.ErrReservationNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWindowTaken_ExcludesCancelled(t *testing.T) {
    repo, mock := newMockRepo(t)
    start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
    end := start.Add(time.Hour)

    mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reservations WHERE service_id = ? AND starts_at = ? AND ends_at = ? AND status <> ?`)).
        WithArgs(100, start, end, model.StatusCancelled).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

    taken, err := repo.WindowTaken(context.Background(), 100, start, end)
    require.NoError(t, err)
    assert.True(t, taken)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
    repo, mock := newMockRepo(t)

    mock.ExpectQuery(regexp.QuoteMeta(`FROM reservations WHERE id = ?`)).
        WithArgs(7).
        WillReturnError(sql.ErrNoRows)

    _, err := repo.GetByID(context.Background(), 7)
    assert.ErrorIs(t, err, booking.ErrReservationNotFound)
}

func viewRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "r.id", "r.status", "r.starts_at", "r.ends_at", "r.created_at",
        "s.id", "s.title", "s.price_cents", "s.provider_id",
        "u.id", "u.name", "u.email",
    })
}

func TestListByProvider_ScansJoinedViews(t *testing.T) {
    repo, mock := newMockRepo(t)
    at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

    rows := viewRows().
        AddRow(2, model.StatusPending, at.Add(time.Hour), at.Add(2*time.Hour), at.Add(time.Minute),
            100, "Garden makeover", 10000, 10,
            21, "Cora Client", "cora@example.com").
        AddRow(1, model.StatusConfirmed, at, at.Add(time.Hour), at,
            100, "Garden makeover", 10000, 10,
            20, "Carl Client", "carl@example.com")

    mock.ExpectQuery(`WHERE s\.provider_id = \? ORDER BY r\.created_at DESC, r\.id DESC`).
        WithArgs(10).
        WillReturnRows(rows)

    views, err := repo.ListByProvider(context.Background(), 10)
    require.NoError(t, err)
    require.Len(t, views, 2)
    assert.Equal(t, uint64(2), views[0].ID)
    assert.Equal(t, "Cora Client", views[0].Client.Name)
    assert.Equal(t, "cora@example.com", views[0].Client.Email)
    assert.Equal(t, uint64(10), views[0].Service.ProviderID)
    assert.Equal(t, model.StatusConfirmed, views[1].Status)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmedStartingBetween_PassesWindow(t *testing.T) {
    repo, mock := newMockRepo(t)
    from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
    to := from.Add(24 * time.Hour)

    mock.ExpectQuery(`WHERE r\.status = \? AND r\.starts_at >= \? AND r\.starts_at < \?`).
        WithArgs(model.StatusConfirmed, from, to).
        WillReturnRows(viewRows())

    views, err := repo.ConfirmedStartingBetween(context.Background(), from, to)
    require.NoError(t, err)
    assert.Empty(t, views)
    assert.NoError(t, mock.ExpectationsWereMet())
}
