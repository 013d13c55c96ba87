package domain

import "time"

// Rate is one entry in the hourly-rate history. At most one rate is active
// at any time; the registry maintains that invariant transactionally when a
// new rate is added. Rates are never deleted.
type Rate struct {
	ID              int64
	HourlyRateCents int64
	IsActive        bool
	CreatedAt       time.Time
}
