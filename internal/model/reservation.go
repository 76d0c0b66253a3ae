package model

import "time"

// Reservation records one user occupying one spot over an interval.  A
// reservation is active while LeavingTime is nil; vacating sets
// LeavingTime and Cost in the same transaction that frees the spot.  Cost
// is computed from the lot's rate at the moment of vacating, not the rate
// in effect at entry.
//
// Fields:
//
//	ID          – primary key identifier.
//	UserID      – user who occupies the spot.
//	SpotID      – spot being occupied.
//	ParkingTime – entry timestamp (UTC).
//	LeavingTime – exit timestamp (nil while active).
//	Cost        – computed fee (nil while active).
type Reservation struct {
	ID          uint64     // reservations.id
	UserID      uint64     // reservations.user_id
	SpotID      uint64     // reservations.spot_id
	ParkingTime time.Time  // reservations.parking_time
	LeavingTime *time.Time // reservations.leaving_time (nullable)
	Cost        *float64   // reservations.cost (nullable)
}
