package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Anshulrazz/notexia-backend/internal/contracts"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

// HandleDomainEvent consumes canonical events from the resource services.
// A failed contribution apply is logged by the caller and routed to the DLQ;
// it is never surfaced back to the service that committed the source document.
func (s *Service) HandleDomainEvent(ctx context.Context, event contracts.EventEnvelope) error {
	if !isSupportedEventType(event.EventType) {
		return domain.ErrUnsupportedEventType
	}
	if event.EventClass != "" && event.EventClass != domain.CanonicalEventClassDomain && event.EventClass != domain.CanonicalEventClassOps {
		return domain.ErrUnsupportedEventClass
	}
	if err := validateEnvelope(event); err != nil {
		return err
	}

	switch event.EventType {
	case domain.EventUserRegistered:
		var payload contracts.UserRegisteredPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return fmt.Errorf("decode user.registered payload: %w", err)
		}
		_, err := s.RegisterUser(ctx, RegisterUserInput{UserID: payload.UserID, Name: payload.Name, Avatar: payload.Avatar})
		if err == domain.ErrConflict {
			// Replayed registration; the record already exists.
			return nil
		}
		return err
	case domain.EventContributionRecorded:
		var payload contracts.ContributionRecordedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return fmt.Errorf("decode contribution.recorded payload: %w", err)
		}
		_, _, err := s.RecordContribution(ctx, RecordContributionInput{
			UserID:      payload.UserID,
			Kind:        payload.Kind,
			SourceDocID: payload.SourceDocID,
			EventID:     event.EventID,
		})
		if err == domain.ErrDuplicateContribution {
			return nil
		}
		return err
	case domain.EventReconciliationRequested:
		_, err := s.RecomputeAll(ctx)
		return err
	}
	return domain.ErrUnsupportedEventType
}

func isSupportedEventType(eventType string) bool {
	switch eventType {
	case domain.EventUserRegistered, domain.EventContributionRecorded, domain.EventReconciliationRequested:
		return true
	default:
		return false
	}
}

func validateEnvelope(event contracts.EventEnvelope) error {
	if strings.TrimSpace(event.EventID) == "" {
		return domain.ErrInvalidInput
	}
	if event.OccurredAt.IsZero() {
		return domain.ErrInvalidInput
	}
	if len(event.Data) == 0 && event.EventType != domain.EventReconciliationRequested {
		return domain.ErrInvalidInput
	}
	return nil
}
