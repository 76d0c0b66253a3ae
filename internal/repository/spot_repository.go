package repository // repository for parking spot persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/musafir-4778/parking-lot-reservation/internal/model"
)

// SpotRepo encapsulates database operations for parking_spots.  The status
// transitions happen inside caller-owned transactions (the ...Tx methods)
// so the check-then-set sequence of an occupy is atomic with respect to
// concurrent requests.
type SpotRepo struct {
	db *sql.DB
}

// NewSpotRepo constructs a SpotRepo given a DB handle.
func NewSpotRepo(db *sql.DB) *SpotRepo {
	return &SpotRepo{db: db}
}

// DB exposes the underlying handle for handlers that begin transactions.
func (r *SpotRepo) DB() *sql.DB { return r.db }

// ListByLot returns all spots of a lot ordered by spot number.
func (r *SpotRepo) ListByLot(ctx context.Context, lotID uint64) ([]*model.ParkingSpot, error) {
	const q = `SELECT id, lot_id, spot_number, status
	           FROM parking_spots WHERE lot_id = ? ORDER BY spot_number`
	rows, err := r.db.QueryContext(ctx, q, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ParkingSpot
	for rows.Next() {
		s := new(model.ParkingSpot)
		if err := rows.Scan(&s.ID, &s.LotID, &s.SpotNumber, &s.Status); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdateTx loads a spot row with SELECT ... FOR UPDATE inside the
// caller's transaction.  The row lock serializes concurrent occupy attempts
// on the same spot: whichever transaction commits first flips the status,
// and the other one re-reads Occupied.  Returns ErrSpotNotFound when the
// spot does not exist.
func (r *SpotRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ParkingSpot, error) {
	const q = `SELECT id, lot_id, spot_number, status
	           FROM parking_spots WHERE id = ? FOR UPDATE`
	var s model.ParkingSpot
	err := tx.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.LotID, &s.SpotNumber, &s.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpdateStatusTx sets a spot's status within the provided transaction.  The
// caller must commit or roll back accordingly.
func (r *SpotRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE parking_spots SET status = ? WHERE id = ?`, status, id)
	return err
}

// ClaimTx locks a spot, verifies it is still available and flips it to
// occupied, all inside the caller's transaction.  Returns ErrSpotOccupied
// when the occupy attempt lost the race and ErrSpotNotFound when the spot
// does not exist.
func (r *SpotRepo) ClaimTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ParkingSpot, error) {
	s, err := r.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if s.Status != model.SpotAvailable {
		return nil, ErrSpotOccupied
	}
	if err := r.UpdateStatusTx(ctx, tx, id, model.SpotOccupied); err != nil {
		return nil, err
	}
	s.Status = model.SpotOccupied
	return s, nil
}
