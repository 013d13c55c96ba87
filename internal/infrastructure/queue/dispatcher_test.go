package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/core/ports"
)

type recordingService struct {
	processed chan ports.GateEventInput
}

func (s *recordingService) Process(_ context.Context, input ports.GateEventInput) error {
	s.processed <- input
	return nil
}

func TestDispatcher_ShardStability(t *testing.T) {
	d := NewDispatcher(4, &recordingService{}, zerolog.Nop())

	// Workers are not started: events stay buffered in the shard channel.
	d.Enqueue(ports.GateEventInput{Plate: "ABC 123", Direction: "entry"})
	d.Enqueue(ports.GateEventInput{Plate: "abc123", Direction: "exit"})

	buffered := 0
	for _, ch := range d.workers {
		if n := len(ch); n > 0 {
			buffered = n
		}
	}
	if buffered != 2 {
		t.Errorf("spellings of one plate must share a shard, largest shard = %d", buffered)
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("workers = %d, want %d", len(d.workers), defaultWorkers)
	}
}

func TestDispatcher_ProcessesEnqueuedEvents(t *testing.T) {
	svc := &recordingService{processed: make(chan ports.GateEventInput, 8)}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.EnqueueBatch([]ports.GateEventInput{
		{Plate: "abc123", Direction: "entry", GateID: "north-1"},
		{Plate: "xyz987", Direction: "entry", GateID: "south-2"},
	})

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case event := <-svc.processed:
			seen[event.Plate] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for events, got %v", seen)
		}
	}
	if !seen["abc123"] || !seen["xyz987"] {
		t.Errorf("processed = %v", seen)
	}
}
