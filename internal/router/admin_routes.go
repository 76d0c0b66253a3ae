package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/musafir-4778/parking-lot-reservation/internal/handler"    // admin handlers
	"github.com/musafir-4778/parking-lot-reservation/internal/middleware" // JWT + role middlewares
	"github.com/musafir-4778/parking-lot-reservation/internal/model"
)

// RegisterAdmin registers admin-scoped endpoints under /v1.
// All routes require a valid JWT and the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Lots ----
	g.POST("/lots", h.CreateLot)
	// NOTE: Listing lots and spots is handled by the shared browse API
	// (GET /v1/lots, GET /v1/lots/:id, GET /v1/lots/:id/spots).  Admin
	// scoped list endpoints were removed to avoid route conflicts.
	g.PUT("/lots/:id", h.UpdateLot)
	g.PATCH("/lots/:id", h.UpdateLot) // allow partial/semantic updates via PATCH as well
	g.DELETE("/lots/:id", h.DeleteLot)

	// ---- Users ----
	// Deleting a user cascades to their reservations and releases any
	// spots they still hold.
	g.DELETE("/users/:id", h.DeleteUser)
}
