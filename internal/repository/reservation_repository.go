package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ReservationRepo provides CRUD operations for reservations.  A reservation
// ties one user to one spot over an interval; it is open while
// leaving_time is NULL and closed once vacate stamps the exit and cost.
// All timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for handlers that begin transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ReservationRecord mirrors the schema of the reservations table.  It is
// used internally by the repository when constructing or scanning rows.
type ReservationRecord struct {
	ID          uint64
	UserID      uint64
	SpotID      uint64
	ParkingTime time.Time
	LeavingTime *time.Time
	Cost        *float64
}

// CreateTx inserts a new open reservation within the scope of an existing
// transaction and populates the generated ID on the provided record.  The
// caller must commit or roll back the transaction.  ParkingTime should be
// the current UTC time; leaving_time and cost stay NULL until vacate.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *ReservationRecord) error {
	const q = `INSERT INTO reservations (user_id, spot_id, parking_time) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.SpotID, res.ParkingTime)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// VacateInfo carries everything the vacate flow needs in one read: the open
// reservation, its spot, and the lot's current hourly rate.  The rate is
// read at vacate time on purpose; a rate change between entry and exit
// bills at the new rate.
type VacateInfo struct {
	ID           uint64
	UserID       uint64
	SpotID       uint64
	SpotNumber   int
	LotID        uint64
	LotName      string
	PricePerHour float64
	ParkingTime  time.Time
}

// GetForVacateTx loads a reservation joined with its spot and lot inside
// the caller's transaction, locking the rows with FOR UPDATE so a
// concurrent vacate of the same reservation serializes.  It validates the
// vacate preconditions in order: ErrReservationNotFound when the row does
// not exist, ErrForbidden when the reservation belongs to a different
// user, ErrAlreadyClosed when leaving_time is already set.
func (r *ReservationRepo) GetForVacateTx(ctx context.Context, tx *sql.Tx, reservationID, userID uint64) (*VacateInfo, error) {
	const q = `SELECT res.id, res.user_id, res.spot_id, res.parking_time, res.leaving_time,
	                  ps.spot_number, pl.id, pl.name, pl.price_per_hour
	           FROM reservations res
	           JOIN parking_spots ps ON ps.id = res.spot_id
	           JOIN parking_lots pl ON pl.id = ps.lot_id
	           WHERE res.id = ?
	           FOR UPDATE`
	var (
		info        VacateInfo
		leavingTime sql.NullTime
	)
	err := tx.QueryRowContext(ctx, q, reservationID).Scan(
		&info.ID, &info.UserID, &info.SpotID, &info.ParkingTime, &leavingTime,
		&info.SpotNumber, &info.LotID, &info.LotName, &info.PricePerHour,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if info.UserID != userID {
		return nil, ErrForbidden
	}
	if leavingTime.Valid {
		return nil, ErrAlreadyClosed
	}
	return &info, nil
}

// CloseTx stamps leaving_time and cost on a reservation within the provided
// transaction.  The caller computes the cost from the lot's current rate
// and resets the spot status in the same transaction.
func (r *ReservationRepo) CloseTx(ctx context.Context, tx *sql.Tx, id uint64, leavingTime time.Time, cost float64) error {
	const q = `UPDATE reservations SET leaving_time = ?, cost = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, leavingTime, cost, id)
	return err
}

// ReservationDetail combines a reservation with its spot and lot context
// for display in a user's history.
type ReservationDetail struct {
	ID           uint64     `json:"id"`
	LotID        uint64     `json:"lot_id"`
	LotName      string     `json:"lot_name"`
	SpotID       uint64     `json:"spot_id"`
	SpotNumber   int        `json:"spot_number"`
	ParkingTime  time.Time  `json:"parking_time"`
	LeavingTime  *time.Time `json:"leaving_time,omitempty"`
	Cost         *float64   `json:"cost,omitempty"`
	PricePerHour float64    `json:"price_per_hour"`
}

// ListByUser returns all reservations for the given user along with spot
// and lot details, newest first.  When no reservations exist, an empty
// slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT res.id, pl.id, pl.name, ps.id, ps.spot_number,
	                  res.parking_time, res.leaving_time, res.cost, pl.price_per_hour
	           FROM reservations res
	           JOIN parking_spots ps ON ps.id = res.spot_id
	           JOIN parking_lots pl ON pl.id = ps.lot_id
	           WHERE res.user_id = ?
	           ORDER BY res.parking_time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var (
			d           ReservationDetail
			leavingTime sql.NullTime
			cost        sql.NullFloat64
		)
		if err := rows.Scan(
			&d.ID, &d.LotID, &d.LotName, &d.SpotID, &d.SpotNumber,
			&d.ParkingTime, &leavingTime, &cost, &d.PricePerHour,
		); err != nil {
			return nil, err
		}
		if leavingTime.Valid {
			t := leavingTime.Time
			d.LeavingTime = &t
		}
		if cost.Valid {
			c := cost.Float64
			d.Cost = &c
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ActiveByUser returns the user's open reservations (leaving_time IS NULL),
// used by the vacate listing so a user can pick which spot to release.
func (r *ReservationRepo) ActiveByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT res.id, pl.id, pl.name, ps.id, ps.spot_number,
	                  res.parking_time, pl.price_per_hour
	           FROM reservations res
	           JOIN parking_spots ps ON ps.id = res.spot_id
	           JOIN parking_lots pl ON pl.id = ps.lot_id
	           WHERE res.user_id = ? AND res.leaving_time IS NULL
	           ORDER BY res.parking_time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(
			&d.ID, &d.LotID, &d.LotName, &d.SpotID, &d.SpotNumber,
			&d.ParkingTime, &d.PricePerHour,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
