package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/carparking/parking-system/internal/api/metrics"
	"github.com/carparking/parking-system/internal/core/domain"
	"github.com/carparking/parking-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes gate events to a fixed set of workers using consistent
// hashing on the plate, guaranteeing per-vehicle ordering: a vehicle's exit
// is never applied ahead of its entry.
type Dispatcher struct {
	workers []chan ports.GateEventInput
	service ports.GateService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.GateService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.GateEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.GateEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its plate.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.GateEventInput) {
	idx := d.shardIndex(domain.NormalizePlate(event.Plate))
	d.workers[idx] <- event
	metrics.GateQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple events preserving per-vehicle ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.GateEventInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

// shardIndex maps a plate deterministically to a worker index.
func (d *Dispatcher) shardIndex(plate string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(plate))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.GateEventInput) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("plate", event.Plate).
					Str("gate", event.GateID).
					Int("worker_id", id).
					Msg("gate event processing failed")
			}
			metrics.GateQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		}
	}
}
