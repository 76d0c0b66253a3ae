package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musafir-4778/parking-lot-reservation/internal/handler"
	"github.com/musafir-4778/parking-lot-reservation/internal/model"
	"github.com/musafir-4778/parking-lot-reservation/internal/repository"
)

type parkingTestDeps struct {
	h       *handler.ParkingHandler
	mock    sqlmock.Sqlmock
	cleanup func()
}

func setupParkingTest(t *testing.T) *parkingTestDeps {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "error mocking DB")

	h := handler.NewParkingHandler(
		repository.NewLotRepo(db),
		repository.NewSpotRepo(db),
		repository.NewReservationRepo(db),
	)
	return &parkingTestDeps{
		h:    h,
		mock: mock,
		cleanup: func() {
			assert.NoError(t, mock.ExpectationsWereMet(), "expectations were not met")
			db.Close()
		},
	}
}

// newUserContext builds an echo context carrying the claims JWTAuth would
// have injected.  Claims decoded from JSON arrive as float64.
func newUserContext(t *testing.T, method, target, param string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(param)
	c.Set("user_id", float64(userID))
	c.Set("role", model.RoleUser)
	return c, rec
}

const spotForUpdate = `SELECT id, lot_id, spot_number, status FROM parking_spots WHERE id = ? FOR UPDATE`

func TestOccupy(t *testing.T) {
	t.Run("flips the spot and opens a reservation", func(t *testing.T) {
		d := setupParkingTest(t)
		defer d.cleanup()

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(spotForUpdate)).
			WithArgs(uint64(21)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "lot_id", "spot_number", "status"}).
				AddRow(21, 2, 3, model.SpotAvailable))
		d.mock.ExpectExec(regexp.QuoteMeta(`UPDATE parking_spots SET status = ? WHERE id = ?`)).
			WithArgs(model.SpotOccupied, uint64(21)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		d.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reservations (user_id, spot_id, parking_time) VALUES (?, ?, ?)`)).
			WithArgs(uint64(5), uint64(21), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(11, 1))
		d.mock.ExpectCommit()

		c, rec := newUserContext(t, http.MethodPost, "/v1/spots/21/occupy", "21", 5)
		require.NoError(t, d.h.Occupy(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			ReservationID uint64 `json:"reservation_id"`
			SpotNumber    int    `json:"spot_number"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, uint64(11), resp.ReservationID)
		assert.Equal(t, 3, resp.SpotNumber)
	})

	t.Run("conflicts when the spot is already occupied", func(t *testing.T) {
		d := setupParkingTest(t)
		defer d.cleanup()

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(spotForUpdate)).
			WithArgs(uint64(21)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "lot_id", "spot_number", "status"}).
				AddRow(21, 2, 3, model.SpotOccupied))
		d.mock.ExpectRollback()

		c, rec := newUserContext(t, http.MethodPost, "/v1/spots/21/occupy", "21", 5)
		require.NoError(t, d.h.Occupy(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("404s for an unknown spot", func(t *testing.T) {
		d := setupParkingTest(t)
		defer d.cleanup()

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(spotForUpdate)).
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "lot_id", "spot_number", "status"}))
		d.mock.ExpectRollback()

		c, rec := newUserContext(t, http.MethodPost, "/v1/spots/99/occupy", "99", 5)
		require.NoError(t, d.h.Occupy(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects a non-numeric spot id", func(t *testing.T) {
		d := setupParkingTest(t)
		defer d.cleanup()

		c, rec := newUserContext(t, http.MethodPost, "/v1/spots/abc/occupy", "abc", 5)
		require.NoError(t, d.h.Occupy(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

const vacateSelect = `SELECT res.id, res.user_id, res.spot_id, res.parking_time, res.leaving_time, ps.spot_number, pl.id, pl.name, pl.price_per_hour FROM reservations res JOIN parking_spots ps ON ps.id = res.spot_id JOIN parking_lots pl ON pl.id = ps.lot_id WHERE res.id = ? FOR UPDATE`

func vacateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "spot_id", "parking_time", "leaving_time",
		"spot_number", "lot_id", "name", "price_per_hour",
	})
}

func TestVacate(t *testing.T) {
	t.Run("closes the reservation and bills two hours at the live rate", func(t *testing.T) {
		d := setupParkingTest(t)
		defer d.cleanup()

		entered := time.Now().UTC().Truncate(time.Second).Add(-2 * time.Hour)

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(vacateSelect)).
			WithArgs(uint64(11)).
			WillReturnRows(vacateRows().AddRow(11, 5, 21, entered, nil, 3, 2, "Central", 12.5))
		d.mock.ExpectExec(regexp.QuoteMeta(`UPDATE reservations SET leaving_time = ?, cost = ? WHERE id = ?`)).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), uint64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		d.mock.ExpectExec(regexp.QuoteMeta(`UPDATE parking_spots SET status = ? WHERE id = ?`)).
			WithArgs(model.SpotAvailable, uint64(21)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		d.mock.ExpectCommit()

		c, rec := newUserContext(t, http.MethodPost, "/v1/reservations/11/vacate", "11", 5)
		require.NoError(t, d.h.Vacate(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Cost    float64 `json:"cost"`
			LotName string  `json:"lot_name"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.InDelta(t, 25.0, resp.Cost, 0.01)
		assert.Equal(t, "Central", resp.LotName)
	})

	t.Run("forbids vacating someone else's reservation", func(t *testing.T) {
		d := setupParkingTest(t)
		defer d.cleanup()

		entered := time.Now().UTC().Add(-time.Hour)

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(vacateSelect)).
			WithArgs(uint64(11)).
			WillReturnRows(vacateRows().AddRow(11, 5, 21, entered, nil, 3, 2, "Central", 12.5))
		d.mock.ExpectRollback()

		c, rec := newUserContext(t, http.MethodPost, "/v1/reservations/11/vacate", "11", 6)
		require.NoError(t, d.h.Vacate(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("conflicts when the reservation is already closed", func(t *testing.T) {
		d := setupParkingTest(t)
		defer d.cleanup()

		entered := time.Now().UTC().Add(-3 * time.Hour)
		left := entered.Add(time.Hour)

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(vacateSelect)).
			WithArgs(uint64(11)).
			WillReturnRows(vacateRows().AddRow(11, 5, 21, entered, left, 3, 2, "Central", 12.5))
		d.mock.ExpectRollback()

		c, rec := newUserContext(t, http.MethodPost, "/v1/reservations/11/vacate", "11", 5)
		require.NoError(t, d.h.Vacate(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("404s for an unknown reservation", func(t *testing.T) {
		d := setupParkingTest(t)
		defer d.cleanup()

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(vacateSelect)).
			WithArgs(uint64(99)).
			WillReturnRows(vacateRows())
		d.mock.ExpectRollback()

		c, rec := newUserContext(t, http.MethodPost, "/v1/reservations/99/vacate", "99", 5)
		require.NoError(t, d.h.Vacate(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
