package domain

import "time"

// GateDirection is the movement reported by barrier hardware.
type GateDirection string

const (
	GateEntry GateDirection = "entry"
	GateExit  GateDirection = "exit"
)

// GateEvent is a single barrier movement reported by a gate controller.
// Controllers retry on network failure, so events are deduplicated on
// (plate, direction, timestamp) before processing.
type GateEvent struct {
	Plate     string // normalized
	Direction GateDirection
	Timestamp time.Time
	GateID    string
	Zone      Zone // optional, entry only
}
