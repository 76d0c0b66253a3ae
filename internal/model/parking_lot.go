package model

import "time"

// ParkingLot represents a parking facility containing a fixed set of spots.
// Creating a lot provisions exactly TotalSpots spot rows numbered 1..N, so
// TotalSpots never changes after creation.  This struct corresponds to a
// row in the `parking_lots` table.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – human readable name of the lot.
//	Address      – street address of the facility.
//	Floor        – floor label (free-form, e.g. "B2").
//	PricePerHour – hourly rate charged while a spot is occupied.
//	TotalSpots   – number of spots provisioned at creation.
//	CreatedAt    – timestamp when the lot was created.
//	UpdatedAt    – timestamp of last update.
type ParkingLot struct {
	ID           uint64    // parking_lots.id
	Name         string    // parking_lots.name
	Address      string    // parking_lots.address
	Floor        string    // parking_lots.floor
	PricePerHour float64   // parking_lots.price_per_hour
	TotalSpots   int       // parking_lots.total_spots
	CreatedAt    time.Time // parking_lots.created_at
	UpdatedAt    time.Time // parking_lots.updated_at
}
