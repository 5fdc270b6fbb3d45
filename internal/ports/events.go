package ports

import (
	"context"

	"github.com/Anshulrazz/notexia-backend/internal/contracts"
)

type EventConsumer interface {
	// Receive returns the next pending event, nil when none is available,
	// or io.EOF when the stream is drained.
	Receive(ctx context.Context) (*contracts.EventEnvelope, error)
}

type DomainPublisher interface {
	PublishDomain(ctx context.Context, event contracts.EventEnvelope) error
}

type DLQPublisher interface {
	PublishDLQ(ctx context.Context, record contracts.DLQRecord) error
}
