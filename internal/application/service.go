package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Anshulrazz/notexia-backend/internal/contracts"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

// RegisterUser creates the zero-valued materialized record for a new user.
// Registration itself is owned by the auth service; this hook only seeds the
// score record so later increments have a target.
func (s *Service) RegisterUser(ctx context.Context, input RegisterUserInput) (domain.UserScore, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return domain.UserScore{}, domain.ErrInvalidInput
	}
	record := domain.UserScore{
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		Avatar:    strings.TrimSpace(input.Avatar),
		UpdatedAt: s.nowFn(),
	}
	if err := s.scores.Create(ctx, record); err != nil {
		return domain.UserScore{}, err
	}
	return record, nil
}

// RecordContribution is the incremental path: one scoring rule's point delta
// and one stats increment, applied atomically to the user's record.
//
// Failures here must never be treated as failures of the action that earned
// the points; the source document is already committed when this runs.
// Callers on the event path log and drop, the HTTP hook reports the condition
// to its (internal) caller for visibility.
func (s *Service) RecordContribution(ctx context.Context, input RecordContributionInput) (domain.UserScore, int, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return domain.UserScore{}, 0, domain.ErrInvalidInput
	}
	kind := domain.NormalizeKind(input.Kind)
	points, err := s.rules.Points(kind)
	if err != nil {
		return domain.UserScore{}, 0, domain.ErrInvalidInput
	}

	now := s.nowFn()
	event := domain.ContributionEvent{UserID: userID, Kind: kind, SourceDocID: strings.TrimSpace(input.SourceDocID), OccurredAt: now}
	if key := event.DedupKey(); key != "" && s.dedup != nil {
		fresh, err := s.dedup.MarkCounted(ctx, key, s.cfg.DedupTTL)
		if err != nil {
			// Dedup is an optimization over reconciliation, not a gate;
			// counting through is the lesser evil when the store is down.
			s.logger.WarnContext(ctx, "contribution dedup unavailable",
				"module", "scoring", "operation", "record_contribution", "user_id", userID, "error", err)
		} else if !fresh {
			return domain.UserScore{}, 0, domain.ErrDuplicateContribution
		}
	}

	updated, err := s.scores.ApplyDelta(ctx, userID, ports.ScoreDelta{Points: points, Kind: kind}, now)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.WarnContext(ctx, "score record missing for contribution",
				"module", "scoring", "operation", "record_contribution",
				"user_id", userID, "kind", string(kind))
		}
		return domain.UserScore{}, 0, err
	}

	if err := s.enqueueScoreUpdated(ctx, updated, kind, points); err != nil {
		s.logger.WarnContext(ctx, "score.updated enqueue failed",
			"module", "scoring", "operation", "record_contribution", "user_id", userID, "error", err)
	}
	return updated, points, nil
}

// Leaderboard returns one page of the global ranking with competition ranks.
// It reads only materialized records; source collections are never touched.
func (s *Service) Leaderboard(ctx context.Context, input LeaderboardInput) (contracts.LeaderboardResponse, error) {
	period := domain.NormalizePeriod(input.Period)
	if err := domain.ValidatePeriod(period); err != nil {
		return contracts.LeaderboardResponse{}, err
	}
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > s.cfg.LeaderboardMaxLimit {
		limit = s.cfg.LeaderboardMaxLimit
	}
	offset := (page - 1) * limit

	entries, err := s.scores.ListTop(ctx, limit, offset)
	if err != nil {
		return contracts.LeaderboardResponse{}, err
	}
	total, err := s.scores.CountAll(ctx)
	if err != nil {
		return contracts.LeaderboardResponse{}, err
	}

	greater := 0
	if len(entries) > 0 {
		greater, err = s.scores.CountGreaterThan(ctx, entries[0].Score)
		if err != nil {
			return contracts.LeaderboardResponse{}, err
		}
	}
	ranked := domain.AssignCompetitionRanks(entries, offset, greater)

	out := contracts.LeaderboardResponse{Period: period, Page: page, Limit: limit, Total: total}
	out.Entries = make([]contracts.LeaderboardEntryResponse, 0, len(ranked))
	for _, row := range ranked {
		out.Entries = append(out.Entries, contracts.LeaderboardEntryResponse{
			UserID: row.Entry.UserID,
			Name:   row.Entry.Name,
			Avatar: row.Entry.Avatar,
			Rank:   row.Rank,
			Score:  row.Entry.Score,
			Stats: contracts.StatsBreakdown{
				NotesCreated:   row.Entry.Stats.NotesCount,
				DoubtsCreated:  row.Entry.Stats.DoubtsAsked,
				DoubtsAnswered: row.Entry.Stats.DoubtsAnswered,
				BlogsCreated:   row.Entry.Stats.BlogsCount,
				ForumThreads:   row.Entry.Stats.ForumThreads,
			},
		})
	}
	return out, nil
}

// MyRank computes 1 + count(users with strictly greater score) live against
// the materialized state; it is never served from a cache.
func (s *Service) MyRank(ctx context.Context, actor Actor) (contracts.MyRankResponse, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return contracts.MyRankResponse{}, domain.ErrUnauthorized
	}
	record, err := s.scores.Get(ctx, actor.SubjectID)
	if err != nil {
		return contracts.MyRankResponse{}, err
	}
	greater, err := s.scores.CountGreaterThan(ctx, record.Score)
	if err != nil {
		return contracts.MyRankResponse{}, err
	}
	return contracts.MyRankResponse{UserID: record.UserID, Rank: greater + 1, Score: record.Score}, nil
}

func (s *Service) enqueueScoreUpdated(ctx context.Context, record domain.UserScore, kind domain.ContributionKind, points int) error {
	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(contracts.ScoreUpdatedPayload{
		UserID:    record.UserID,
		Kind:      string(kind),
		Points:    points,
		Score:     record.Score,
		UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		RecordID:   uuid.NewString(),
		EventClass: domain.CanonicalEventClassDomain,
		Envelope: contracts.EventEnvelope{
			EventID:          uuid.NewString(),
			EventType:        domain.EventScoreUpdated,
			EventClass:       domain.CanonicalEventClassDomain,
			OccurredAt:       s.nowFn(),
			PartitionKeyPath: "data.user_id",
			PartitionKey:     record.UserID,
			SourceService:    s.cfg.ServiceName,
			SchemaVersion:    "v1",
			Data:             payload,
		},
		CreatedAt: s.nowFn(),
	})
}

// FlushOutbox publishes pending outbox records, oldest first.
func (s *Service) FlushOutbox(ctx context.Context) error {
	if s.outbox == nil || s.domainEvents == nil {
		return nil
	}
	pending, err := s.outbox.ListPending(ctx, s.cfg.OutboxFlushBatchSize)
	if err != nil {
		return err
	}
	for _, record := range pending {
		if err := s.domainEvents.PublishDomain(ctx, record.Envelope); err != nil {
			return err
		}
		if err := s.outbox.MarkSent(ctx, record.RecordID, s.nowFn()); err != nil {
			return err
		}
	}
	return nil
}
