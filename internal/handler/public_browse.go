// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse the service catalogue and its categories.
// Internal fields such as timestamps of little use to guests are filtered
// from responses.

package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/NizarI20/ServiceHub-sub000/internal/booking"
    "github.com/NizarI20/ServiceHub-sub000/internal/model"
    "github.com/NizarI20/ServiceHub-sub000/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
    ServiceRepo  *repository.ServiceRepo  // provides access to service data
    CategoryRepo *repository.CategoryRepo // provides access to category data
}

// PublicService represents a service exposed via the public API.
type PublicService struct {
    ID            uint64  `json:"id"`
    ProviderID    uint64  `json:"provider_id"`
    CategoryID    uint64  `json:"category_id"`
    Title         string  `json:"title"`
    Description   string  `json:"description"`
    PriceCents    uint32  `json:"price_cents"`
    IsAvailable   bool    `json:"is_available"`
    ConditionText string  `json:"condition_text,omitempty"`
    ImageURL      *string `json:"image_url,omitempty"`
}

func publicService(s model.Service) PublicService {
    return PublicService{
        ID:            s.ID,
        ProviderID:    s.ProviderID,
        CategoryID:    s.CategoryID,
        Title:         s.Title,
        Description:   s.Description,
        PriceCents:    s.PriceCents,
        IsAvailable:   s.IsAvailable,
        ConditionText: s.ConditionText,
        ImageURL:      s.ImageURL,
    }
}

// PublicCategory represents a category in public listings.
type PublicCategory struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
}

// GetPublicServices handles GET /v1/services.  Optional query
// parameters: `category` (numeric category ID), `q` (free-text match
// against title and description) and `available=true` to hide services
// the provider has switched off.
func (h *PublicHandler) GetPublicServices(c echo.Context) error {
    var f repository.ServiceFilter
    if raw := c.QueryParam("category"); raw != "" {
        id, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || id == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
        }
        f.CategoryID = id
    }
    f.Query = c.QueryParam("q")
    f.OnlyAvailable = strings.EqualFold(c.QueryParam("available"), "true")

    services, err := h.ServiceRepo.List(c.Request().Context(), f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items := make([]PublicService, 0, len(services))
    for _, s := range services {
        items = append(items, publicService(s))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": items,
        "count": len(items),
    })
}

// GetPublicService handles GET /v1/services/:id and returns one
// service's details.
func (h *PublicHandler) GetPublicService(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
    }
    svc, err := h.ServiceRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, booking.ErrServiceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": publicService(svc)})
}

// GetPublicCategories handles GET /v1/categories and returns all
// categories ordered by name.
func (h *PublicHandler) GetPublicCategories(c echo.Context) error {
    cats, err := h.CategoryRepo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items := make([]PublicCategory, 0, len(cats))
    for _, cat := range cats {
        items = append(items, PublicCategory{ID: cat.ID, Name: cat.Name})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": items,
        "count": len(items),
    })
}
