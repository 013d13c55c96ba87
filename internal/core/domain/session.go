package domain

import (
	"strings"
	"time"
)

// Zone identifies the lot area a vehicle parked in.
type Zone string

const (
	ZoneA   Zone = "A"
	ZoneB   Zone = "B"
	ZoneC   Zone = "C"
	ZoneVIP Zone = "VIP"
)

// ValidZones lists every recognized zone, used in validation messages.
var ValidZones = []Zone{ZoneA, ZoneB, ZoneC, ZoneVIP}

// ParseZone upper-cases and validates a zone string. An empty input is
// allowed and yields an empty zone (zone is optional on entry).
func ParseZone(s string) (Zone, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	z := Zone(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range ValidZones {
		if z == valid {
			return z, nil
		}
	}
	return "", ErrInvalidZone
}

// Session is one park-in-to-pay-out occurrence for a vehicle, bounded by an
// entry event and (eventually) an exit event.
type Session struct {
	ID         int64
	Plate      string // normalized
	EntryTime  time.Time
	ExitTime   *time.Time
	FeeCents   *int64
	IsPaid     bool
	CustomerID *int64 // linked customer account, nil for walk-ins
	OwnerID    *int64 // operator who recorded the entry, nil for self-entry
	Zone       Zone   // empty when not assigned
}

// IsOpen reports whether the vehicle is still parked.
func (s *Session) IsOpen() bool {
	return s.ExitTime == nil
}

// Duration returns the parked time: entry to exit for closed sessions,
// entry to now for open ones.
func (s *Session) Duration(now time.Time) time.Duration {
	if s.ExitTime != nil {
		return s.ExitTime.Sub(s.EntryTime)
	}
	return now.Sub(s.EntryTime)
}
