// Package telemetry persists setup flow events in the background.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/topic"

	"github.com/jask/setupflow/internal/database"
	"github.com/jask/setupflow/internal/database/repository"
	flowlog "github.com/jask/setupflow/internal/log"
)

type (
	// Recorder queues flow events and writes them to a Store from a single
	// background goroutine, so callers on the UI goroutine never block on
	// the database.
	Recorder struct {
		prod   topic.Producer[repository.FlowEvent]
		cons   topic.Consumer[repository.FlowEvent]
		store  Store
		logger *slog.Logger

		mu       sync.RWMutex
		closed   bool
		stop     chan struct{}
		pending  sync.WaitGroup
		wg       sync.WaitGroup
		stopOnce sync.Once
	}

	// Store is where recorded events end up.
	Store interface {
		InsertBatch(ctx context.Context, events []repository.FlowEvent) error
	}
)

var ErrClosed = errors.New("telemetry recorder closed")

const (
	writeTimeout = 5 * time.Second
	maxBatch     = 64
)

// NewRecorder starts a Recorder writing to store.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	t := caravan.NewTopic[repository.FlowEvent]()
	r := &Recorder{
		prod:   t.NewProducer(),
		cons:   t.NewConsumer(),
		store:  store,
		logger: logger,
		stop:   make(chan struct{}),
	}
	r.wg.Go(r.run)
	return r
}

// Log implements the flow's telemetry sink. Events logged after Close are
// dropped.
func (r *Recorder) Log(name string, activityID uuid.UUID, props map[string]string) {
	if err := r.Record(name, activityID, props); err != nil {
		r.logger.Debug("Dropped telemetry event",
			slog.String("event", name),
			flowlog.Error(err))
	}
}

// Record queues a single event for persistence.
func (r *Recorder) Record(
	name string, activityID uuid.UUID, props map[string]string,
) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	r.pending.Add(1)
	r.prod.Send() <- repository.FlowEvent{
		ID:         uuid.NewString(),
		Name:       name,
		ActivityID: activityID.String(),
		Properties: maps.Clone(props),
		CreatedAt:  database.Now(),
	}
	return nil
}

// Close stops accepting events and returns once every accepted event has
// been handed to the Store and the background writer has exited.
func (r *Recorder) Close() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		// accepted events may still be in flight inside the topic
		r.pending.Wait()
		close(r.stop)
	})
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer func() {
		r.prod.Close()
		r.cons.Close()
	}()
	for {
		select {
		case <-r.stop:
			return
		case e, ok := <-r.cons.Receive():
			if !ok {
				return
			}
			r.write(r.collectBatch(e))
		}
	}
}

func (r *Recorder) collectBatch(first repository.FlowEvent) []repository.FlowEvent {
	batch := []repository.FlowEvent{first}
	for len(batch) < maxBatch {
		select {
		case e, ok := <-r.cons.Receive():
			if !ok {
				return batch
			}
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}

func (r *Recorder) write(batch []repository.FlowEvent) {
	defer r.pending.Add(-len(batch))
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.store.InsertBatch(ctx, batch); err != nil {
		r.logger.Error("Failed to persist telemetry events",
			slog.Int("batch_size", len(batch)),
			flowlog.Error(err))
	}
}
