package audit

import (
	"context"
	"log/slog"
)

// Sink receives events after they are persisted. The Kafka producer
// implements it; a nil sink is fine.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Worker drains the publisher queue, persisting each event and forwarding it
// to the sink. Failures are logged, never retried; audit loss is tolerated
// over backpressure on the request path.
type Worker struct {
	publisher *Publisher
	store     Store
	sink      Sink
	logger    *slog.Logger
}

func NewWorker(publisher *Publisher, store Store, sink Sink, logger *slog.Logger) *Worker {
	return &Worker{publisher: publisher, store: store, sink: sink, logger: logger}
}

// Run processes events until ctx is canceled or the publisher is closed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-w.publisher.Events():
			if !ok {
				return nil
			}
			w.process(ctx, e)
		}
	}
}

func (w *Worker) process(ctx context.Context, e Event) {
	if err := w.store.Append(ctx, e); err != nil {
		w.logger.ErrorContext(ctx, "failed to persist audit event",
			"action", e.Action,
			"error", err,
		)
	}
	if w.sink == nil {
		return
	}
	if err := w.sink.Publish(ctx, e); err != nil {
		w.logger.WarnContext(ctx, "failed to publish audit event",
			"action", e.Action,
			"error", err,
		)
	}
}
