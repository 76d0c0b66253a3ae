package model

// Spot status values stored in the parking_spots.status column.  A spot is
// Occupied exactly while it has one open reservation and Available
// otherwise; there is no intermediate "reserved" state.
const (
	SpotAvailable = "A"
	SpotOccupied  = "O"
)

// ParkingSpot describes an individually occupiable unit within a lot.
// Spots are numbered 1..total_spots per lot at provisioning time and are
// never renumbered afterwards.
//
// Fields:
//
//	ID         – primary key identifier.
//	LotID      – lot to which this spot belongs.
//	SpotNumber – lot-scoped sequential number starting at 1.
//	Status     – SpotAvailable or SpotOccupied.
type ParkingSpot struct {
	ID         uint64 // parking_spots.id
	LotID      uint64 // parking_spots.lot_id
	SpotNumber int    // parking_spots.spot_number
	Status     string // parking_spots.status
}
