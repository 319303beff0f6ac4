package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/NizarI20/ServiceHub-sub000/internal/model"
    "github.com/NizarI20/ServiceHub-sub000/internal/repository"
)

// NotificationHandler exposes a user's in-app notifications.  Reading
// and marking read are the only operations; notifications are written
// solely by the reservation lifecycle.
type NotificationHandler struct {
    Notifications *repository.NotificationRepo
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
    if repo == nil {
        panic("nil repository passed to NewNotificationHandler")
    }
    return &NotificationHandler{Notifications: repo}
}

type notificationItem struct {
    ID            uint64    `json:"id"`
    ReservationID uint64    `json:"reservation_id"`
    Message       string    `json:"message"`
    IsRead        bool      `json:"is_read"`
    CreatedAt     time.Time `json:"created_at"`
}

func notificationItems(notes []model.Notification) []notificationItem {
    items := make([]notificationItem, 0, len(notes))
    for _, n := range notes {
        items = append(items, notificationItem{
            ID:            n.ID,
            ReservationID: n.ReservationID,
            Message:       n.Message,
            IsRead:        n.IsRead,
            CreatedAt:     n.CreatedAt,
        })
    }
    return items
}

// List handles GET /v1/notifications.  It returns the caller's
// notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    notes, err := h.Notifications.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
    }
    items := notificationItems(notes)
    return c.JSON(http.StatusOK, echo.Map{
        "items": items,
        "count": len(items),
    })
}

// MarkRead handles PATCH /v1/notifications/:id/read.  Only the
// recipient may mark a notification read; repeating the call is a
// no-op.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
    }
    if err := h.Notifications.MarkRead(c.Request().Context(), id, userID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notification"})
    }
    return c.NoContent(http.StatusNoContent)
}
