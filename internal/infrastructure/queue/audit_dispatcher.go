package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasks-service/internal/api/metrics"
	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher moves audit writes off the request path. Changes are routed
// to a fixed set of workers by hashing the entity, so the changes of one user
// or task are stored in the order they were recorded.
//
// It satisfies ports.AuditRepository and reads are served by the wrapped
// repository directly.
type AuditDispatcher struct {
	workers []chan domain.StatusChange
	audit   ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, audit ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.StatusChange, numWorkers),
		audit:   audit,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.StatusChange, channelBuffer)
	}
	return d
}

// Start launches the workers. Writes use ctx, so pass a context that
// outlives the HTTP server and call Stop to drain.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the queues and waits until every pending change is written.
// Record must not be called after Stop.
func (d *AuditDispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Record queues c for its entity's worker. It blocks only while that worker's
// buffer is full, and gives up when ctx is done.
func (d *AuditDispatcher) Record(ctx context.Context, c domain.StatusChange) error {
	select {
	case d.workers[d.shardIndex(c.Entity, c.EntityID)] <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *AuditDispatcher) History(ctx context.Context, entity domain.EntityKind, id int64) ([]domain.StatusChange, error) {
	return d.audit.History(ctx, entity, id)
}

// shardIndex maps an entity deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(entity domain.EntityKind, id int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entity))
	_, _ = h.Write([]byte(strconv.FormatInt(id, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.StatusChange) {
	defer d.wg.Done()
	for c := range ch {
		if err := d.audit.Record(ctx, c); err != nil {
			metrics.DegradedCallsTotal.WithLabelValues("audit").Inc()
			d.log.Error().Err(err).
				Str("entity", string(c.Entity)).
				Int64("id", c.EntityID).
				Int("worker_id", id).
				Msg("audit write failed")
		}
	}
}
