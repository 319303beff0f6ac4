package handler

// This file defines the HTTP surface of the reservation lifecycle.
// Clients create reservations and list their own; providers list the
// reservations made against their services and confirm or refuse
// pending ones.  All state-machine rules live in the booking package;
// the handlers only normalize input and translate booking errors into
// HTTP status codes.

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/NizarI20/ServiceHub-sub000/internal/booking"
    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

// ReservationHandler exposes the booking lifecycle over HTTP.
type ReservationHandler struct {
    Lifecycle *booking.Lifecycle
}

// NewReservationHandler constructs a ReservationHandler.  The lifecycle
// must be non-nil.
func NewReservationHandler(l *booking.Lifecycle) *ReservationHandler {
    if l == nil {
        panic("nil lifecycle passed to NewReservationHandler")
    }
    return &ReservationHandler{Lifecycle: l}
}

// createReservationReq accepts both window representations found in
// clients: a single `date`, or a `start_date`/`end_date` pair.
type createReservationReq struct {
    ServiceID uint64 `json:"service_id"`
    Date      string `json:"date"`
    StartDate string `json:"start_date"`
    EndDate   string `json:"end_date"`
}

// pointBookingLength is the window assigned to a bare `date` input.
const pointBookingLength = time.Hour

// normalizeWindow turns the request's date fields into a canonical
// [start, end) pair.  A pair wins over a bare date when both are sent.
func normalizeWindow(req createReservationReq) (booking.Window, error) {
    if req.StartDate != "" || req.EndDate != "" {
        start, err := parseWhen(req.StartDate)
        if err != nil {
            return booking.Window{}, errors.New("invalid start_date")
        }
        end, err := parseWhen(req.EndDate)
        if err != nil {
            return booking.Window{}, errors.New("invalid end_date")
        }
        return booking.Window{Start: start, End: end}, nil
    }
    if req.Date != "" {
        start, err := parseWhen(req.Date)
        if err != nil {
            return booking.Window{}, errors.New("invalid date")
        }
        return booking.Window{Start: start, End: start.Add(pointBookingLength)}, nil
    }
    return booking.Window{}, errors.New("date or start_date/end_date required")
}

// parseWhen accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func parseWhen(s string) (time.Time, error) {
    s = strings.TrimSpace(s)
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t.UTC(), nil
    }
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        return time.Time{}, err
    }
    return t.UTC(), nil
}

// Create handles POST /v1/reservations.  The authenticated client
// requests a window on a service; on success a PENDING reservation is
// returned with HTTP 201.  An occupied window or an unknown service
// fail with 400 and 404 respectively.
func (h *ReservationHandler) Create(c echo.Context) error {
    clientID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.ServiceID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_id is required"})
    }
    w, err := normalizeWindow(req)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    res, err := h.Lifecycle.Create(c.Request().Context(), clientID, req.ServiceID, w)
    if err != nil {
        return reservationError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":         res.ID,
        "service_id": res.ServiceID,
        "status":     res.Status,
        "starts_at":  res.StartsAt,
        "ends_at":    res.EndsAt,
        "created_at": res.CreatedAt,
    })
}

// Confirm handles PATCH /v1/reservations/:id/confirm.  Only the
// provider owning the reservation's service may confirm, and only
// while the reservation is still PENDING.
func (h *ReservationHandler) Confirm(c echo.Context) error {
    return h.transition(c, h.Lifecycle.Confirm)
}

// Cancel handles PATCH /v1/reservations/:id/cancel.  Same contract as
// Confirm with the refusal transition instead.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    return h.transition(c, h.Lifecycle.Cancel)
}

func (h *ReservationHandler) transition(c echo.Context, apply func(ctx context.Context, reservationID, actorID uint64) (model.Reservation, error)) error {
    actorID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := parseReservationID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    res, err := apply(c.Request().Context(), resID, actorID)
    if err != nil {
        return reservationError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":         res.ID,
        "service_id": res.ServiceID,
        "status":     res.Status,
        "starts_at":  res.StartsAt,
        "ends_at":    res.EndsAt,
        "updated_at": res.UpdatedAt,
    })
}

// ListForClient handles GET /v1/reservations/user.  It returns the
// caller's reservations, newest first.
func (h *ReservationHandler) ListForClient(c echo.Context) error {
    clientID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Lifecycle.ListForClient(c.Request().Context(), clientID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": items,
        "count": len(items),
    })
}

// ListForProvider handles GET /v1/reservations/seller.  It returns all
// reservations made against the caller's services, newest first, each
// with the sanitized client view.
func (h *ReservationHandler) ListForProvider(c echo.Context) error {
    providerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Lifecycle.ListForProvider(c.Request().Context(), providerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": items,
        "count": len(items),
    })
}

// reservationError maps booking sentinels onto HTTP responses.
func reservationError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, booking.ErrServiceNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
    case errors.Is(err, booking.ErrReservationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
    case errors.Is(err, booking.ErrWindowTaken):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "requested window already reserved"})
    case errors.Is(err, booking.ErrNotPending):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation is not pending"})
    case errors.Is(err, booking.ErrInvalidWindow):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "window end must be after start"})
    case errors.Is(err, booking.ErrNotOwner):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation operation failed"})
}

// parseReservationID reads and validates the :id path parameter.
func parseReservationID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid reservation id")
    }
    return id, nil
}
