package ports

import (
	"context"
	"time"

	"github.com/Anshulrazz/notexia-backend/internal/contracts"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

// ScoreDelta is one incremental update: points to add and which stats field
// to bump. Implementations must apply both as a single atomic unit relative
// to concurrent deltas on the same user; a read-modify-write of a previously
// fetched score is not an acceptable implementation.
type ScoreDelta struct {
	Points int
	Kind   domain.ContributionKind
}

type ScoreRepository interface {
	Create(ctx context.Context, record domain.UserScore) error
	Get(ctx context.Context, userID string) (domain.UserScore, error)
	// ApplyDelta atomically adds the delta to the user's score and stats
	// field. Returns domain.ErrNotFound when no record exists; it must not
	// create one.
	ApplyDelta(ctx context.Context, userID string, delta ScoreDelta, at time.Time) (domain.UserScore, error)
	// Replace overwrites score and stats wholesale, preserving profile fields.
	Replace(ctx context.Context, userID string, score int, stats domain.ContributionStats, at time.Time) error
	ListUserIDs(ctx context.Context) ([]string, error)
	// ListTop returns entries ordered by score descending with user id
	// ascending as the deterministic tie-breaker.
	ListTop(ctx context.Context, limit, offset int) ([]domain.UserScore, error)
	CountGreaterThan(ctx context.Context, score int) (int, error)
	CountAll(ctx context.Context) (int, error)
}

// SourceCollections exposes read-only count queries against the independently
// owned stores of notes, doubts, blogs and forums. This service never writes
// through this port.
type SourceCollections interface {
	CountNotesByAuthor(ctx context.Context, userID string) (int, error)
	CountDoubtsByAuthor(ctx context.Context, userID string) (int, error)
	// CountDoubtsAnsweredBy counts distinct doubts carrying at least one
	// answer by the user, not individual answers.
	CountDoubtsAnsweredBy(ctx context.Context, userID string) (int, error)
	CountBlogsByAuthor(ctx context.Context, userID string) (int, error)
	CountForumThreadsByAuthor(ctx context.Context, userID string) (int, error)
}

// ContributionDedupStore records which contribution events have already been
// counted by the incremental path so replays are rejected. Entries expire;
// reconciliation remains the authoritative convergence mechanism.
type ContributionDedupStore interface {
	// MarkCounted returns false when the key was already present.
	MarkCounted(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type OutboxRecord struct {
	RecordID   string
	EventClass string
	Envelope   contracts.EventEnvelope
	CreatedAt  time.Time
	SentAt     *time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	ListPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, recordID string, at time.Time) error
}
