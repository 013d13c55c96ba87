package domain

import (
	"math"
	"time"
)

// ParkingFee computes the fee in cents for a stay billed at hourlyRateCents
// per hour. Duration is measured in exact floating-point hours and rounded
// up to the next whole hour: any positive fraction counts as a full hour,
// and only an exactly zero duration yields a zero fee.
func ParkingFee(entry, exit time.Time, hourlyRateCents int64) int64 {
	hours := exit.Sub(entry).Hours()
	if hours <= 0 {
		return 0
	}
	return int64(math.Ceil(hours)) * hourlyRateCents
}
