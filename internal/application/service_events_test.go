package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Anshulrazz/notexia-backend/internal/contracts"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

func envelope(t *testing.T, eventType string, payload any) contracts.EventEnvelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return contracts.EventEnvelope{
		EventID:    "evt_" + eventType,
		EventType:  eventType,
		EventClass: domain.CanonicalEventClassDomain,
		OccurredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Data:       data,
	}
}

func TestHandleUserRegisteredSeedsRecord(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	event := envelope(t, domain.EventUserRegistered, contracts.UserRegisteredPayload{UserID: "user_1", Name: "Asha"})
	if err := svc.HandleDomainEvent(ctx, event); err != nil {
		t.Fatalf("handle user.registered: %v", err)
	}
	record, err := repos.Scores.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Score != 0 || record.Name != "Asha" {
		t.Fatalf("unexpected seeded record %+v", record)
	}

	// Replay of the same registration is not an error.
	if err := svc.HandleDomainEvent(ctx, event); err != nil {
		t.Fatalf("replayed registration: %v", err)
	}
}

func TestHandleContributionRecordedApplies(t *testing.T) {
	svc, repos, _ := newTestService(t)
	register(t, svc, "user_1")
	ctx := context.Background()

	event := envelope(t, domain.EventContributionRecorded, contracts.ContributionRecordedPayload{
		UserID: "user_1", Kind: "blog", SourceDocID: "blog_1",
	})
	if err := svc.HandleDomainEvent(ctx, event); err != nil {
		t.Fatalf("handle contribution.recorded: %v", err)
	}
	record, err := repos.Scores.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Score != 8 || record.Stats.BlogsCount != 1 {
		t.Fatalf("unexpected record after apply %+v", record)
	}

	// Redelivery dedupes on (user, kind, source doc) and stays silent.
	if err := svc.HandleDomainEvent(ctx, event); err != nil {
		t.Fatalf("redelivered contribution: %v", err)
	}
	record, _ = repos.Scores.Get(ctx, "user_1")
	if record.Score != 8 {
		t.Fatalf("redelivery double counted: score %d", record.Score)
	}
}

func TestHandleContributionRecordedMissingUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	event := envelope(t, domain.EventContributionRecorded, contracts.ContributionRecordedPayload{
		UserID: "ghost", Kind: "note", SourceDocID: "note_1",
	})
	if err := svc.HandleDomainEvent(context.Background(), event); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandleReconciliationRequested(t *testing.T) {
	svc, repos, _ := newTestService(t)
	register(t, svc, "user_1")
	repos.Source.SeedNote("user_1", "note_1")

	event := contracts.EventEnvelope{
		EventID:    "evt_recompute",
		EventType:  domain.EventReconciliationRequested,
		EventClass: domain.CanonicalEventClassOps,
		OccurredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := svc.HandleDomainEvent(context.Background(), event); err != nil {
		t.Fatalf("handle reconciliation.requested: %v", err)
	}
	record, _ := repos.Scores.Get(context.Background(), "user_1")
	if record.Score != 10 {
		t.Fatalf("recompute did not run: score %d", record.Score)
	}
}

func TestHandleRejectsUnsupportedType(t *testing.T) {
	svc, _, _ := newTestService(t)
	event := envelope(t, "user.deleted", struct{}{})
	if err := svc.HandleDomainEvent(context.Background(), event); !errors.Is(err, domain.ErrUnsupportedEventType) {
		t.Fatalf("expected ErrUnsupportedEventType, got %v", err)
	}
}

func TestHandleRejectsUnknownClass(t *testing.T) {
	svc, _, _ := newTestService(t)
	event := envelope(t, domain.EventContributionRecorded, contracts.ContributionRecordedPayload{UserID: "u", Kind: "note"})
	event.EventClass = "telemetry"
	if err := svc.HandleDomainEvent(context.Background(), event); !errors.Is(err, domain.ErrUnsupportedEventClass) {
		t.Fatalf("expected ErrUnsupportedEventClass, got %v", err)
	}
}

func TestHandleRejectsMalformedEnvelope(t *testing.T) {
	svc, _, _ := newTestService(t)
	event := envelope(t, domain.EventContributionRecorded, contracts.ContributionRecordedPayload{UserID: "u", Kind: "note"})
	event.EventID = ""
	if err := svc.HandleDomainEvent(context.Background(), event); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty event id, got %v", err)
	}

	event = envelope(t, domain.EventContributionRecorded, contracts.ContributionRecordedPayload{UserID: "u", Kind: "note"})
	event.OccurredAt = time.Time{}
	if err := svc.HandleDomainEvent(context.Background(), event); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero occurred_at, got %v", err)
	}
}
