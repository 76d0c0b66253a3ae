// Package pricing computes reservation fees from elapsed time and an hourly
// rate.  It is kept free of database and HTTP concerns so the fee contract
// can be tested in isolation.
package pricing

import (
	"math"
	"time"
)

// Cost returns the fee for occupying a spot from entry to exit at the given
// hourly rate, rounded half-up to two decimal places.  The rate passed in
// must be the lot's rate at the time of vacating; rates are never
// snapshotted at entry.  A zero or negative duration (clock skew) is not an
// error and simply yields a zero or negative fee.
func Cost(entry, exit time.Time, ratePerHour float64) float64 {
	hours := exit.Sub(entry).Seconds() / 3600
	return round2(hours * ratePerHour)
}

// round2 rounds to 2 decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
