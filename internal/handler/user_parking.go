package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/musafir-4778/parking-lot-reservation/internal/model"
	"github.com/musafir-4778/parking-lot-reservation/internal/pricing"
	"github.com/musafir-4778/parking-lot-reservation/internal/queue"
	"github.com/musafir-4778/parking-lot-reservation/internal/repository"
	queue_publisher "github.com/musafir-4778/parking-lot-reservation/internal/service"
)

// ParkingHandler groups the repositories needed for browsing lots and for
// the occupy/vacate flow.  All methods assume JWT authentication and role
// validation already happened in middleware; they may still return 401
// when the user ID cannot be extracted from the context.  The occupy and
// vacate operations run their critical reads and writes inside a single
// transaction so concurrent requests on the same spot serialize on the
// row lock.
type ParkingHandler struct {
	LotRepo         *repository.LotRepo
	SpotRepo        *repository.SpotRepo
	ReservationRepo *repository.ReservationRepo
}

// NewParkingHandler constructs a ParkingHandler.  All dependencies must be
// non-nil.
func NewParkingHandler(lotRepo *repository.LotRepo, spotRepo *repository.SpotRepo, reservationRepo *repository.ReservationRepo) *ParkingHandler {
	if lotRepo == nil || spotRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewParkingHandler")
	}
	return &ParkingHandler{LotRepo: lotRepo, SpotRepo: spotRepo, ReservationRepo: reservationRepo}
}

// BrowseLots lists every lot with its rate, for any authenticated role.
func (h *ParkingHandler) BrowseLots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lots, err := h.LotRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list lots failed"})
	}
	out := make([]lotResp, 0, len(lots))
	for _, l := range lots {
		out = append(out, toLotResp(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"lots": out})
}

// BrowseLot returns one lot by id.
func (h *ParkingHandler) BrowseLot(c echo.Context) error {
	lotID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lot, err := h.LotRepo.GetByID(ctx, lotID)
	if err != nil {
		if err == repository.ErrLotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lot failed"})
	}
	return c.JSON(http.StatusOK, toLotResp(lot))
}

// BrowseSpots lists a lot's spots with their availability.
func (h *ParkingHandler) BrowseSpots(c echo.Context) error {
	lotID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lot, err := h.LotRepo.GetByID(ctx, lotID)
	if err != nil {
		if err == repository.ErrLotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load lot failed"})
	}

	spots, err := h.SpotRepo.ListByLot(ctx, lotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list spots failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"lot_id":         lot.ID,
		"lot_name":       lot.Name,
		"price_per_hour": lot.PricePerHour,
		"spots":          spots,
	})
}

// Occupy handles POST /v1/spots/:id/occupy.  It locks the spot row, checks
// that it is still available, flips it to occupied and opens a reservation
// stamped with the current UTC time.  Whichever of two concurrent requests
// commits first wins; the loser re-reads the occupied status under the
// lock and gets a 409.
func (h *ParkingHandler) Occupy(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	spotID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}

	ctx := c.Request().Context()
	tx, err := h.SpotRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	spot, err := h.SpotRepo.ClaimTx(ctx, tx, spotID)
	if err != nil {
		switch err {
		case repository.ErrSpotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		case repository.ErrSpotOccupied:
			return c.JSON(http.StatusConflict, echo.Map{"error": "spot already occupied"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	rec := &repository.ReservationRecord{
		UserID:      userID,
		SpotID:      spotID,
		ParkingTime: time.Now().UTC().Truncate(time.Second),
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": rec.ID,
		"spot_id":        spotID,
		"spot_number":    spot.SpotNumber,
		"lot_id":         spot.LotID,
		"parking_time":   rec.ParkingTime,
	})
}

// Vacate handles POST /v1/reservations/:id/vacate.  It locks the open
// reservation with its spot and lot, computes the cost from the lot's
// current hourly rate, closes the reservation and releases the spot, all
// in one transaction.  Only the reservation's owner may vacate it.  After
// commit a SpotVacatedEvent is published asynchronously; a broker outage
// never fails the request.
func (h *ParkingHandler) Vacate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	info, err := h.ReservationRepo.GetForVacateTx(ctx, tx, resID, userID)
	if err != nil {
		switch err {
		case repository.ErrReservationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
		case repository.ErrAlreadyClosed:
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already closed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	leavingTime := time.Now().UTC().Truncate(time.Second)
	cost := pricing.Cost(info.ParkingTime, leavingTime, info.PricePerHour)

	if err := h.ReservationRepo.CloseTx(ctx, tx, resID, leavingTime, cost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to close reservation"})
	}
	if err := h.SpotRepo.UpdateStatusTx(ctx, tx, info.SpotID, model.SpotAvailable); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release spot"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit"})
	}
	committed = true

	event := queue.SpotVacatedEvent{
		ReservationID: info.ID,
		UserID:        info.UserID,
		LotID:         info.LotID,
		LotName:       info.LotName,
		SpotID:        info.SpotID,
		SpotNumber:    info.SpotNumber,
		ParkingTime:   info.ParkingTime.Format(time.RFC3339),
		LeavingTime:   leavingTime.Format(time.RFC3339),
		Cost:          cost,
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishSpotVacated(pubCtx, event)
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": info.ID,
		"spot_id":        info.SpotID,
		"spot_number":    info.SpotNumber,
		"lot_id":         info.LotID,
		"lot_name":       info.LotName,
		"parking_time":   info.ParkingTime,
		"leaving_time":   leavingTime,
		"price_per_hour": info.PricePerHour,
		"cost":           cost,
	})
}

// MyReservations returns the caller's reservation history, newest first.
func (h *ParkingHandler) MyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.ReservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}

// MyActiveReservations returns only the caller's open reservations so a
// client can show which spots are still held.
func (h *ParkingHandler) MyActiveReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.ReservationRepo.ActiveByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}
