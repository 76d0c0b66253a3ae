// Package queue defines message payloads exchanged over the message broker.
package queue

// SpotVacatedEvent is published when a reservation is closed.  It carries
// enough information for downstream consumers to log or feed analytics
// without querying the primary database.  Cost is the final amount billed
// for the stay, already rounded to two decimals.
type SpotVacatedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	LotID         uint64  `json:"lot_id"`
	LotName       string  `json:"lot_name"`
	SpotID        uint64  `json:"spot_id"`
	SpotNumber    int     `json:"spot_number"`
	ParkingTime   string  `json:"parking_time"`
	LeavingTime   string  `json:"leaving_time"`
	Cost          float64 `json:"cost"`
}
