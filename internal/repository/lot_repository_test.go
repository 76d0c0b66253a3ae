package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musafir-4778/parking-lot-reservation/internal/model"
	"github.com/musafir-4778/parking-lot-reservation/internal/repository"
)

type lotTestDeps struct {
	repo    *repository.LotRepo
	mock    sqlmock.Sqlmock
	cleanup func()
}

func setupLotTest(t *testing.T) *lotTestDeps {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "error mocking DB")

	return &lotTestDeps{
		repo: repository.NewLotRepo(db),
		mock: mock,
		cleanup: func() {
			assert.NoError(t, mock.ExpectationsWereMet(), "expectations were not met")
			db.Close()
		},
	}
}

func lotColumns() []string {
	return []string{"id", "name", "address", "floor", "price_per_hour", "total_spots", "created_at", "updated_at"}
}

func TestLotCreate(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("provisions lot and numbered spots in one transaction", func(t *testing.T) {
		d := setupLotTest(t)
		defer d.cleanup()

		d.mock.ExpectBegin()
		d.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO parking_lots (name, address, floor, price_per_hour, total_spots) VALUES (?, ?, ?, ?, ?)`)).
			WithArgs("Central", "1 Main St", "G", 12.5, 3).
			WillReturnResult(sqlmock.NewResult(7, 1))
		d.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO parking_spots (lot_id, spot_number, status) VALUES (?, ?, ?),(?, ?, ?),(?, ?, ?)`)).
			WithArgs(
				uint64(7), 1, model.SpotAvailable,
				uint64(7), 2, model.SpotAvailable,
				uint64(7), 3, model.SpotAvailable,
			).
			WillReturnResult(sqlmock.NewResult(0, 3))
		d.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, address, floor, price_per_hour, total_spots, created_at, updated_at FROM parking_lots WHERE id = ?`)).
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows(lotColumns()).
				AddRow(7, "Central", "1 Main St", "G", 12.5, 3, now, now))
		d.mock.ExpectCommit()

		lot := &model.ParkingLot{
			Name:         "Central",
			Address:      "1 Main St",
			Floor:        "G",
			PricePerHour: 12.5,
			TotalSpots:   3,
		}
		err := d.repo.Create(context.Background(), lot)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), lot.ID)
		assert.Equal(t, now, lot.CreatedAt)
	})

	t.Run("rejects non-positive rate and spot count without touching the DB", func(t *testing.T) {
		testCases := []struct {
			name string
			lot  model.ParkingLot
		}{
			{name: "zero rate", lot: model.ParkingLot{Name: "A", PricePerHour: 0, TotalSpots: 5}},
			{name: "negative rate", lot: model.ParkingLot{Name: "A", PricePerHour: -1, TotalSpots: 5}},
			{name: "zero spots", lot: model.ParkingLot{Name: "A", PricePerHour: 2, TotalSpots: 0}},
			{name: "negative spots", lot: model.ParkingLot{Name: "A", PricePerHour: 2, TotalSpots: -3}},
		}
		for _, tc := range testCases {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				d := setupLotTest(t)
				defer d.cleanup()

				lot := tc.lot
				err := d.repo.Create(context.Background(), &lot)
				assert.ErrorIs(t, err, repository.ErrInvalidInput)
			})
		}
	})

	t.Run("rolls back when spot provisioning fails", func(t *testing.T) {
		d := setupLotTest(t)
		defer d.cleanup()

		d.mock.ExpectBegin()
		d.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO parking_lots`)).
			WillReturnResult(sqlmock.NewResult(4, 1))
		d.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO parking_spots`)).
			WillReturnError(errors.New("db error"))
		d.mock.ExpectRollback()

		lot := &model.ParkingLot{Name: "Central", PricePerHour: 5, TotalSpots: 2}
		err := d.repo.Create(context.Background(), lot)
		assert.EqualError(t, err, "db error")
	})
}

func TestLotUpdate(t *testing.T) {
	t.Run("updates descriptive fields and rate", func(t *testing.T) {
		d := setupLotTest(t)
		defer d.cleanup()

		d.mock.ExpectExec(regexp.QuoteMeta(`UPDATE parking_lots SET name = ?, address = ?, floor = ?, price_per_hour = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)).
			WithArgs("Central", "1 Main St", "G", 20.0, uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := d.repo.Update(context.Background(), &model.ParkingLot{
			ID: 7, Name: "Central", Address: "1 Main St", Floor: "G", PricePerHour: 20.0,
		})
		assert.NoError(t, err)
	})

	t.Run("reports missing lot", func(t *testing.T) {
		d := setupLotTest(t)
		defer d.cleanup()

		d.mock.ExpectExec(regexp.QuoteMeta(`UPDATE parking_lots`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := d.repo.Update(context.Background(), &model.ParkingLot{ID: 99, Name: "X", PricePerHour: 1})
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		d := setupLotTest(t)
		defer d.cleanup()

		err := d.repo.Update(context.Background(), &model.ParkingLot{ID: 7, Name: "", PricePerHour: 1})
		assert.ErrorIs(t, err, repository.ErrInvalidInput)
	})
}

func TestLotDeleteByID(t *testing.T) {
	t.Run("cascades reservations then spots then the lot", func(t *testing.T) {
		d := setupLotTest(t)
		defer d.cleanup()

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM parking_lots WHERE id = ?`)).
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		d.mock.ExpectExec(regexp.QuoteMeta(`DELETE res FROM reservations res JOIN parking_spots ps ON ps.id = res.spot_id WHERE ps.lot_id = ?`)).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 5))
		d.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM parking_spots WHERE lot_id = ?`)).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		d.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM parking_lots WHERE id = ?`)).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		d.mock.ExpectCommit()

		err := d.repo.DeleteByID(context.Background(), 7)
		assert.NoError(t, err)
	})

	t.Run("reports missing lot and rolls back", func(t *testing.T) {
		d := setupLotTest(t)
		defer d.cleanup()

		d.mock.ExpectBegin()
		d.mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM parking_lots WHERE id = ?`)).
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		d.mock.ExpectRollback()

		err := d.repo.DeleteByID(context.Background(), 99)
		assert.ErrorIs(t, err, repository.ErrLotNotFound)
	})
}

func TestLotGetByID(t *testing.T) {
	t.Run("maps missing row to ErrLotNotFound", func(t *testing.T) {
		d := setupLotTest(t)
		defer d.cleanup()

		d.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, address, floor, price_per_hour, total_spots, created_at, updated_at FROM parking_lots WHERE id = ?`)).
			WithArgs(uint64(42)).
			WillReturnError(sql.ErrNoRows)

		_, err := d.repo.GetByID(context.Background(), 42)
		assert.ErrorIs(t, err, repository.ErrLotNotFound)
	})
}
