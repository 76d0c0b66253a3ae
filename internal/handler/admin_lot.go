package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/musafir-4778/parking-lot-reservation/internal/model"
	"github.com/musafir-4778/parking-lot-reservation/internal/repository"
)

// AdminHandler bundles repositories for lot provisioning and the other
// admin-only maintenance operations.  Read endpoints (lot and spot
// listings) live on the shared browse API, so this handler only mutates.
type AdminHandler struct {
	LotRepo  *repository.LotRepo
	UserRepo *repository.UserRepo
}

// NewAdminHandler constructs a new AdminHandler and panics if any dependency is nil.
func NewAdminHandler(lotRepo *repository.LotRepo, userRepo *repository.UserRepo) *AdminHandler {
	if lotRepo == nil || userRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{LotRepo: lotRepo, UserRepo: userRepo}
}

// ----- DTOs -----

type lotCreateReq struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Floor        string  `json:"floor"`
	PricePerHour float64 `json:"price_per_hour"`
	TotalSpots   int     `json:"total_spots"`
}

type lotUpdateReq struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Floor        string  `json:"floor"`
	PricePerHour float64 `json:"price_per_hour"`
}

type lotResp struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Floor        string    `json:"floor"`
	PricePerHour float64   `json:"price_per_hour"`
	TotalSpots   int       `json:"total_spots"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toLotResp(l *model.ParkingLot) lotResp {
	return lotResp{
		ID:           l.ID,
		Name:         l.Name,
		Address:      l.Address,
		Floor:        l.Floor,
		PricePerHour: l.PricePerHour,
		TotalSpots:   l.TotalSpots,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// CreateLot provisions a new lot together with its numbered spots.  The
// repository runs both inserts in one transaction, so a failed spot insert
// leaves no half-provisioned lot behind.
func (h *AdminHandler) CreateLot(c echo.Context) error {
	var req lotCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lot := &model.ParkingLot{
		Name:         req.Name,
		Address:      strings.TrimSpace(req.Address),
		Floor:        strings.TrimSpace(req.Floor),
		PricePerHour: req.PricePerHour,
		TotalSpots:   req.TotalSpots,
	}
	if err := h.LotRepo.Create(ctx, lot); err != nil {
		if err == repository.ErrInvalidInput {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_hour and total_spots must be positive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lot failed"})
	}
	return c.JSON(http.StatusCreated, toLotResp(lot))
}

// UpdateLot modifies a lot's descriptive fields and hourly rate.  Rate
// changes take effect for every reservation vacated afterwards, including
// ones that were already open when the rate changed.
func (h *AdminHandler) UpdateLot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	var req lotUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lot := &model.ParkingLot{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Address:      strings.TrimSpace(req.Address),
		Floor:        strings.TrimSpace(req.Floor),
		PricePerHour: req.PricePerHour,
	}
	if err := h.LotRepo.Update(ctx, lot); err != nil {
		switch err {
		case repository.ErrInvalidInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required and price_per_hour must be positive"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update lot failed"})
		}
	}

	updated, err := h.LotRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lot failed"})
	}
	return c.JSON(http.StatusOK, toLotResp(updated))
}

// DeleteLot removes a lot along with its spots and all their reservations,
// including open ones.
func (h *AdminHandler) DeleteLot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.LotRepo.DeleteByID(ctx, id); err != nil {
		if err == repository.ErrLotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete lot failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes a user account together with its reservation history.
// Spots the user still occupies are released as part of the cascade.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	// The seeded admin must not delete itself out of the system.
	if uid, err := getUserID(c); err == nil && uid == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete own account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.UserRepo.DeleteByID(ctx, id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
