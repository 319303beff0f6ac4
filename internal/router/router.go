package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/NizarI20/ServiceHub-sub000/internal/handler"    // import the handlers that implement business logic
	"github.com/NizarI20/ServiceHub-sub000/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/NizarI20/ServiceHub-sub000/internal/model"      // role names used when guarding route groups
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Group for operations that do not require an existing session.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a fresh pair.
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a bearer token (revoke all sessions) or a
	// refresh_token in the body (revoke that session), so it does not
	// sit behind the JWT middleware.
	g.POST("/logout", a.Logout)

	// Protected group for endpoints needing a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleProvider, model.RoleClient))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The PublicHandler exposes sanitized service and category
// data for guest users; no JWT or role middleware applies here.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// Browse the service catalogue, optionally filtered by ?category, ?q
	// and ?available=true.
	e.GET("/v1/services", p.GetPublicServices)
	// Service details by id.
	e.GET("/v1/services/:id", p.GetPublicService)
	// All categories for building filter UIs.
	e.GET("/v1/categories", p.GetPublicCategories)
}

// RegisterMarketplace registers the authenticated marketplace routes: the
// provider's service management, the reservation lifecycle for both roles,
// and notification access.  Role middleware separates the provider-only
// and client-only surfaces.
func RegisterMarketplace(e *echo.Echo, s *handler.ServiceHandler, r *handler.ReservationHandler, n *handler.NotificationHandler, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleProvider, model.RoleClient))

	// Notifications belong to whichever role is authenticated.
	auth.GET("/notifications", n.List)
	auth.PATCH("/notifications/:id/read", n.MarkRead)

	// Client-side reservation surface.
	client := auth.Group("", middleware.RequireRole(model.RoleClient))
	client.POST("/reservations", r.Create)
	client.GET("/reservations/user", r.ListForClient)

	// Provider-side surface: service CRUD plus reservation approval.
	provider := auth.Group("", middleware.RequireRole(model.RoleProvider))
	provider.POST("/services", s.CreateService)
	provider.GET("/services/mine", s.ListOwnServices)
	provider.PUT("/services/:id", s.UpdateService)
	provider.DELETE("/services/:id", s.DeleteService)
	provider.GET("/reservations/seller", r.ListForProvider)
	provider.PATCH("/reservations/:id/confirm", r.Confirm)
	provider.PATCH("/reservations/:id/cancel", r.Cancel)
}
