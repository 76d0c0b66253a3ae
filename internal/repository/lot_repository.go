package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/musafir-4778/parking-lot-reservation/internal/model"
)

// LotRepo provides methods to create, retrieve, update and delete parking
// lots.  Lot creation also provisions the lot's spots; the two steps share
// one transaction so a lot can never exist with fewer spots than its
// declared total.
type LotRepo struct {
	db *sql.DB
}

// NewLotRepo constructs a LotRepo with the given DB handle.
func NewLotRepo(db *sql.DB) *LotRepo {
	return &LotRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions that
// span several repositories.
func (r *LotRepo) DB() *sql.DB { return r.db }

// Create inserts a new lot and provisions exactly TotalSpots spot rows
// numbered 1..N with status Available, all inside a single transaction.
// Either the lot and every spot exist afterwards or nothing does.  It
// returns ErrInvalidInput for a non-positive rate or spot count.  On
// success the lot's ID and timestamp fields are populated.
func (r *LotRepo) Create(ctx context.Context, lot *model.ParkingLot) error {
	if lot.PricePerHour <= 0 || lot.TotalSpots <= 0 {
		return ErrInvalidInput
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	const qInsert = `INSERT INTO parking_lots (name, address, floor, price_per_hour, total_spots)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, lot.Name, lot.Address, lot.Floor, lot.PricePerHour, lot.TotalSpots)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	lot.ID = uint64(id)

	// Bulk insert all spots in one statement, numbered from 1.
	query := `INSERT INTO parking_spots (lot_id, spot_number, status) VALUES `
	args := make([]interface{}, 0, lot.TotalSpots*3)
	for n := 1; n <= lot.TotalSpots; n++ {
		if n > 1 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, lot.ID, n, model.SpotAvailable)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	// Read the record back so created_at/updated_at reflect DB defaults.
	const qSelect = `SELECT id, name, address, floor, price_per_hour, total_spots, created_at, updated_at
	                 FROM parking_lots WHERE id = ?`
	err = tx.QueryRowContext(ctx, qSelect, lot.ID).Scan(
		&lot.ID, &lot.Name, &lot.Address, &lot.Floor, &lot.PricePerHour, &lot.TotalSpots,
		&lot.CreatedAt, &lot.UpdatedAt)
	return err
}

// GetByID retrieves a lot by its ID.  It returns ErrLotNotFound when no
// row is found.
func (r *LotRepo) GetByID(ctx context.Context, id uint64) (*model.ParkingLot, error) {
	const q = `SELECT id, name, address, floor, price_per_hour, total_spots, created_at, updated_at
	           FROM parking_lots WHERE id = ?`
	var lot model.ParkingLot
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&lot.ID, &lot.Name, &lot.Address, &lot.Floor, &lot.PricePerHour, &lot.TotalSpots,
		&lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// ListAll returns every lot ordered by id.  Both roles browse lots through
// this query.
func (r *LotRepo) ListAll(ctx context.Context) ([]*model.ParkingLot, error) {
	const q = `SELECT id, name, address, floor, price_per_hour, total_spots, created_at, updated_at
	           FROM parking_lots ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ParkingLot
	for rows.Next() {
		lot := new(model.ParkingLot)
		if err := rows.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Floor, &lot.PricePerHour,
			&lot.TotalSpots, &lot.CreatedAt, &lot.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies a lot's name, address, floor and hourly rate.  The spot
// count is fixed at provisioning time and deliberately not updatable, since
// spots are never renumbered.  Returns ErrInvalidInput for a non-positive
// rate and sql.ErrNoRows when the lot does not exist.
func (r *LotRepo) Update(ctx context.Context, lot *model.ParkingLot) error {
	if lot.PricePerHour <= 0 || strings.TrimSpace(lot.Name) == "" {
		return ErrInvalidInput
	}
	const q = `UPDATE parking_lots
	           SET name = ?, address = ?, floor = ?, price_per_hour = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, lot.Name, lot.Address, lot.Floor, lot.PricePerHour, lot.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByID removes a lot and all dependent records.  The cascade runs as
// ordered DELETE statements inside one transaction: reservations referencing
// the lot's spots first, then the spots, then the lot itself.  It returns
// ErrLotNotFound when the lot does not exist.
func (r *LotRepo) DeleteByID(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM parking_lots WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		err = ErrLotNotFound
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE res FROM reservations res
		 JOIN parking_spots ps ON ps.id = res.spot_id
		 WHERE ps.lot_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM parking_spots WHERE lot_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM parking_lots WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
