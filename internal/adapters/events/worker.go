package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/Anshulrazz/notexia-backend/internal/application"
	"github.com/Anshulrazz/notexia-backend/internal/contracts"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

// Worker drains the contribution event stream and flushes the outbox. It is
// the asynchronous entry point for the incremental updater and for operator
// requested reconciliation runs.
type Worker struct {
	logger       *slog.Logger
	consumer     ports.EventConsumer
	dlqPublisher ports.DLQPublisher
	service      *application.Service
	pollInterval time.Duration
	dlqTopic     string
}

func NewWorker(logger *slog.Logger, consumer ports.EventConsumer, dlqPublisher ports.DLQPublisher, service *application.Service, pollInterval time.Duration, dlqTopic string) *Worker {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	if dlqTopic == "" {
		dlqTopic = "contribution-scoring.dlq"
	}
	return &Worker{logger: logger, consumer: consumer, dlqPublisher: dlqPublisher, service: service, pollInterval: pollInterval, dlqTopic: dlqTopic}
}

func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if w.service != nil {
				if err := w.service.FlushOutbox(ctx); err != nil {
					return err
				}
			}
			if w.consumer == nil || w.service == nil {
				continue
			}
			event, err := w.consumer.Receive(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) {
					continue
				}
				return err
			}
			if event == nil {
				continue
			}
			if err := w.service.HandleDomainEvent(ctx, *event); err != nil {
				if event.EventClass == domain.CanonicalEventClassAnalyticsOnly {
					w.logger.WarnContext(ctx, "analytics-only event dropped",
						"event_type", event.EventType, "event_id", event.EventID, "error", err)
					continue
				}
				// Scoring is bookkeeping on top of an already committed
				// action; a failed event goes to the DLQ, never back to
				// the producer.
				w.logger.ErrorContext(ctx, "contribution event failed",
					"event_type", event.EventType, "event_id", event.EventID, "error", err)
				if w.dlqPublisher != nil {
					now := time.Now().UTC()
					_ = w.dlqPublisher.PublishDLQ(ctx, contracts.DLQRecord{
						OriginalEvent: *event,
						ErrorSummary:  err.Error(),
						RetryCount:    1,
						FirstSeenAt:   now,
						LastErrorAt:   now,
						SourceTopic:   event.EventType,
						TraceID:       event.TraceID,
					})
				}
			}
		}
	}
}
