package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Anshulrazz/notexia-backend/internal/contracts"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

// RecomputeAll recounts every user's stats from the source collections and
// replaces each materialized record wholesale. The pass is idempotent: two
// back-to-back runs over unchanged sources produce identical records.
//
// Cost is O(users × source collections) in count queries; this is operator
// or job triggered maintenance, never part of a request path. One user's
// failure does not abort the rest, the report carries the partial outcome.
func (s *Service) RecomputeAll(ctx context.Context) (RecomputeReport, error) {
	userIDs, err := s.scores.ListUserIDs(ctx)
	if err != nil {
		return RecomputeReport{}, err
	}

	report := RecomputeReport{UsersTotal: len(userIDs)}
	for _, userID := range userIDs {
		if err := s.recomputeUser(ctx, userID); err != nil {
			report.Failures = append(report.Failures, userID)
			s.logger.ErrorContext(ctx, "reconciliation failed for user",
				"module", "scoring", "operation", "recompute_all",
				"user_id", userID, "error", err)
			continue
		}
		report.UsersProcessed++
	}

	if err := s.enqueueReconciliationCompleted(ctx, report); err != nil {
		s.logger.WarnContext(ctx, "reconciliation.completed enqueue failed",
			"module", "scoring", "operation", "recompute_all", "error", err)
	}
	s.logger.InfoContext(ctx, "reconciliation pass finished",
		"module", "scoring", "operation", "recompute_all",
		"users_processed", report.UsersProcessed, "users_total", report.UsersTotal)
	return report, nil
}

// recomputeUser rebuilds one user's stats and score from source truth. Stats
// and score come from the same set of freshly executed counts, so each
// replacement is internally consistent even while sources keep moving.
func (s *Service) recomputeUser(ctx context.Context, userID string) error {
	var stats domain.ContributionStats
	var err error

	if stats.NotesCount, err = s.source.CountNotesByAuthor(ctx, userID); err != nil {
		return fmt.Errorf("count notes: %w", err)
	}
	if stats.DoubtsAsked, err = s.source.CountDoubtsByAuthor(ctx, userID); err != nil {
		return fmt.Errorf("count doubts asked: %w", err)
	}
	if stats.DoubtsAnswered, err = s.source.CountDoubtsAnsweredBy(ctx, userID); err != nil {
		return fmt.Errorf("count doubts answered: %w", err)
	}
	if stats.BlogsCount, err = s.source.CountBlogsByAuthor(ctx, userID); err != nil {
		return fmt.Errorf("count blogs: %w", err)
	}
	if stats.ForumThreads, err = s.source.CountForumThreadsByAuthor(ctx, userID); err != nil {
		return fmt.Errorf("count forum threads: %w", err)
	}

	score := s.rules.WeightedTotal(stats)
	if err := s.scores.Replace(ctx, userID, score, stats, s.nowFn()); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

func (s *Service) enqueueReconciliationCompleted(ctx context.Context, report RecomputeReport) error {
	if s.outbox == nil {
		return nil
	}
	now := s.nowFn()
	payload, err := json.Marshal(contracts.ReconciliationCompletedPayload{
		UsersProcessed: report.UsersProcessed,
		UsersTotal:     report.UsersTotal,
		CompletedAt:    now.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		RecordID:   uuid.NewString(),
		EventClass: domain.CanonicalEventClassOps,
		Envelope: contracts.EventEnvelope{
			EventID:          uuid.NewString(),
			EventType:        domain.EventReconciliationCompleted,
			EventClass:       domain.CanonicalEventClassOps,
			OccurredAt:       now,
			PartitionKeyPath: "data.completed_at",
			PartitionKey:     now.Format(time.RFC3339),
			SourceService:    s.cfg.ServiceName,
			SchemaVersion:    "v1",
			Data:             payload,
		},
		CreatedAt: now,
	})
}
