package ports

import (
	"context"
	"time"
)

// GateEventInput is a barrier movement as reported by a gate controller.
type GateEventInput struct {
	Plate     string // raw, normalized by the service
	Direction string // entry | exit
	Timestamp time.Time
	GateID    string
	Zone      string // optional, entry only
}

// GateService processes gate-controller events through the session ledger.
type GateService interface {
	Process(ctx context.Context, input GateEventInput) error
}
