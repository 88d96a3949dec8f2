package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/codehive/classroom/internal/api/metrics"
	"github.com/codehive/classroom/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes asynchronous submission events to a fixed set of workers
// using consistent hashing on the username. Events from the same user always
// land on the same worker, so near-simultaneous deliveries for one user are
// applied in arrival order.
type Dispatcher struct {
	workers []chan ports.SubmitInput
	service ports.SubmissionService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.SubmissionService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SubmitInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SubmitInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its username.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.SubmitInput) {
	idx := d.shardIndex(event.Username)
	d.workers[idx] <- event
	metrics.SubmissionQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SubmitInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.SubmissionQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if _, err := d.service.Submit(ctx, event); err != nil {
				metrics.SubmissionErrorsTotal.WithLabelValues("store").Inc()
				d.log.Error().Err(err).
					Str("username", event.Username).
					Str("environment", event.Environment).
					Int("worker_id", id).
					Msg("async submission failed")
				continue
			}
			metrics.SubmissionsTotal.WithLabelValues("async").Inc()
		}
	}
}
