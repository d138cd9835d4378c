package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"richideia/internal/platform/metrics"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 100
)

// Worker drains unpublished events to the broker. Rows are marked published
// only after a successful produce, so a crash between the two replays the
// event; consumers must tolerate duplicates.
type Worker struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

func NewWorker(store Store, publisher Publisher, logger *slog.Logger, m *metrics.Metrics) *Worker {
	return &Worker{
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		interval:  defaultPollInterval,
		batchSize: defaultBatchSize,
	}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	events, err := w.store.FetchUnpublished(ctx, w.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	published := make([]Event, 0, len(events))
	for _, event := range events {
		if err := w.publisher.Publish(ctx, event); err != nil {
			if w.metrics != nil {
				w.metrics.OutboxFailures.Inc()
			}
			w.logger.ErrorContext(ctx, "outbox publish failed",
				"event_id", event.ID,
				"event_type", event.EventType,
				"error", err,
			)
			// Stop the batch to preserve per-aggregate ordering.
			break
		}
		published = append(published, event)
	}

	if len(published) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(published))
	for _, event := range published {
		ids = append(ids, event.ID)
	}
	if err := w.store.MarkPublished(ctx, ids); err != nil {
		return err
	}
	if w.metrics != nil {
		w.metrics.OutboxPublished.Add(float64(len(published)))
	}
	return nil
}
