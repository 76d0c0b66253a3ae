package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musafir-4778/parking-lot-reservation/internal/model"
	"github.com/musafir-4778/parking-lot-reservation/internal/repository"
)

const spotForUpdateFragment = `SELECT id, lot_id, spot_number, status FROM parking_spots WHERE id = ? FOR UPDATE`

func TestClaimTx(t *testing.T) {
	spotColumns := []string{"id", "lot_id", "spot_number", "status"}

	testCases := []struct {
		name          string
		mockSetup     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "claims an available spot",
			mockSetup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(spotForUpdateFragment)).
					WithArgs(uint64(21)).
					WillReturnRows(sqlmock.NewRows(spotColumns).AddRow(21, 2, 3, model.SpotAvailable))
				m.ExpectExec(regexp.QuoteMeta(`UPDATE parking_spots SET status = ? WHERE id = ?`)).
					WithArgs(model.SpotOccupied, uint64(21)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedError: nil,
		},
		{
			name: "loses the race for an occupied spot",
			mockSetup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(spotForUpdateFragment)).
					WithArgs(uint64(21)).
					WillReturnRows(sqlmock.NewRows(spotColumns).AddRow(21, 2, 3, model.SpotOccupied))
			},
			expectedError: repository.ErrSpotOccupied,
		},
		{
			name: "reports a missing spot",
			mockSetup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(spotForUpdateFragment)).
					WithArgs(uint64(21)).
					WillReturnRows(sqlmock.NewRows(spotColumns))
			},
			expectedError: repository.ErrSpotNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err, "error mocking DB")
			defer db.Close()

			repo := repository.NewSpotRepo(db)

			mock.ExpectBegin()
			tc.mockSetup(mock)
			mock.ExpectRollback()

			tx, err := db.BeginTx(context.Background(), nil)
			require.NoError(t, err)

			spot, err := repo.ClaimTx(context.Background(), tx, 21)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, spot)
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.SpotOccupied, spot.Status)
				assert.Equal(t, 3, spot.SpotNumber)
			}
			require.NoError(t, tx.Rollback())
			assert.NoError(t, mock.ExpectationsWereMet(), "expectations were not met")
		})
	}
}
