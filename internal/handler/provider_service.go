package handler

// This file defines HTTP handlers for providers to manage their service
// listings.  The middleware guarantees the PROVIDER role; ownership of
// the individual service is enforced by the repository so a provider
// can never mutate another provider's listing.

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

// ServiceHandler groups the repositories providers need to publish and
// maintain services.
type ServiceHandler struct {
    ServiceRepo  *repository.ServiceRepo
    CategoryRepo *repository.CategoryRepo
}

// NewServiceHandler constructs a ServiceHandler.  Both repositories
// must be non-nil.
func NewServiceHandler(serviceRepo *repository.ServiceRepo, categoryRepo *repository.CategoryRepo) *ServiceHandler {
    if serviceRepo == nil || categoryRepo == nil {
        panic("nil repository passed to NewServiceHandler")
    }
    return &ServiceHandler{ServiceRepo: serviceRepo, CategoryRepo: categoryRepo}
}

type serviceReq struct {
    CategoryID    uint64  `json:"category_id"`
    Title         string  `json:"title"`
    Description   string  `json:"description"`
    PriceCents    uint32  `json:"price_cents"`
    IsAvailable   *bool   `json:"is_available"`
    ConditionText string  `json:"condition_text"`
    ImageURL      *string `json:"image_url"`
}

func (h *ServiceHandler) validate(c echo.Context, req *serviceReq) (bool, error) {
    req.Title = strings.TrimSpace(req.Title)
    if req.Title == "" {
        return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
    }
    if req.CategoryID == 0 {
        return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id is required"})
    }
    ok, err := h.CategoryRepo.Exists(c.Request().Context(), req.CategoryID)
    if err != nil {
        return false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ok {
        return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
    }
    return true, nil
}

// CreateService handles POST /v1/services.  It publishes a new service
// owned by the authenticated provider and returns it with HTTP 201.
func (h *ServiceHandler) CreateService(c echo.Context) error {
    providerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req serviceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if ok, resp := h.validate(c, &req); !ok {
        return resp
    }
    available := true
    if req.IsAvailable != nil {
        available = *req.IsAvailable
    }
    svc := model.Service{
        ProviderID:    providerID,
        CategoryID:    req.CategoryID,
        Title:         req.Title,
        Description:   req.Description,
        PriceCents:    req.PriceCents,
        IsAvailable:   available,
        ConditionText: req.ConditionText,
        ImageURL:      req.ImageURL,
    }
    if err := h.ServiceRepo.Create(c.Request().Context(), &svc); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create service"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": publicService(svc)})
}

// UpdateService handles PUT /v1/services/:id.  It rewrites the mutable
// fields of a service the caller owns.
func (h *ServiceHandler) UpdateService(c echo.Context) error {
    providerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
    }
    var req serviceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if ok, resp := h.validate(c, &req); !ok {
        return resp
    }
    available := true
    if req.IsAvailable != nil {
        available = *req.IsAvailable
    }
    svc := model.Service{
        ID:            id,
        CategoryID:    req.CategoryID,
        Title:         req.Title,
        Description:   req.Description,
        PriceCents:    req.PriceCents,
        IsAvailable:   available,
        ConditionText: req.ConditionText,
        ImageURL:      req.ImageURL,
    }
    if err := h.ServiceRepo.Update(c.Request().Context(), providerID, &svc); err != nil {
        if errors.Is(err, booking.ErrServiceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update service"})
    }
    got, err := h.ServiceRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load service"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": publicService(got)})
}

// DeleteService handles DELETE /v1/services/:id.  Services with
// reservations against them cannot be deleted and respond 409.
func (h *ServiceHandler) DeleteService(c echo.Context) error {
    providerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
    }
    if err := h.ServiceRepo.Delete(c.Request().Context(), id, providerID); err != nil {
        if errors.Is(err, booking.ErrServiceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "service has reservations"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete service"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListOwnServices handles GET /v1/services/mine.  It returns every
// service of the authenticated provider, including unavailable ones.
func (h *ServiceHandler) ListOwnServices(c echo.Context) error {
    providerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    services, err := h.ServiceRepo.ListByProvider(c.Request().Context(), providerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load services"})
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
