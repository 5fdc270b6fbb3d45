package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Anshulrazz/notexia-backend/internal/domain"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

// Repositories bundles the map-backed adapters used by unit tests and by
// runtimes started without a database URL.
type Repositories struct {
	Scores *ScoreRepository
	Source *SourceCollections
	Dedup  *DedupStore
	Outbox *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Scores: &ScoreRepository{records: make(map[string]domain.UserScore)},
		Source: &SourceCollections{
			notes:        make(map[string][]string),
			doubts:       make(map[string][]string),
			doubtAnswers: make(map[string]map[string]bool),
			blogs:        make(map[string][]string),
			forumThreads: make(map[string][]string),
		},
		Dedup:  &DedupStore{entries: make(map[string]time.Time)},
		Outbox: &OutboxRepository{records: make(map[string]ports.OutboxRecord)},
	}
}

type ScoreRepository struct {
	mu      sync.Mutex
	records map[string]domain.UserScore
}

func (r *ScoreRepository) Create(_ context.Context, record domain.UserScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[record.UserID]; exists {
		return domain.ErrConflict
	}
	r.records[record.UserID] = record
	return nil
}

func (r *ScoreRepository) Get(_ context.Context, userID string) (domain.UserScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[userID]
	if !ok {
		return domain.UserScore{}, domain.ErrNotFound
	}
	return record, nil
}

// ApplyDelta increments under the store lock, so concurrent deltas for the
// same user serialize instead of clobbering each other.
func (r *ScoreRepository) ApplyDelta(_ context.Context, userID string, delta ports.ScoreDelta, at time.Time) (domain.UserScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[userID]
	if !ok {
		return domain.UserScore{}, domain.ErrNotFound
	}
	record.Score += delta.Points
	switch delta.Kind {
	case domain.KindNoteAuthored:
		record.Stats.NotesCount++
	case domain.KindDoubtAsked:
		record.Stats.DoubtsAsked++
	case domain.KindDoubtAnswered:
		record.Stats.DoubtsAnswered++
	case domain.KindBlogAuthored:
		record.Stats.BlogsCount++
	case domain.KindForumThreadStarted:
		record.Stats.ForumThreads++
	default:
		return domain.UserScore{}, domain.ErrUnknownKind
	}
	record.UpdatedAt = at
	r.records[userID] = record
	return record, nil
}

func (r *ScoreRepository) Replace(_ context.Context, userID string, score int, stats domain.ContributionStats, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[userID]
	if !ok {
		return domain.ErrNotFound
	}
	record.Score = score
	record.Stats = stats
	record.UpdatedAt = at
	r.records[userID] = record
	return nil
}

func (r *ScoreRepository) ListUserIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *ScoreRepository) ListTop(_ context.Context, limit, offset int) ([]domain.UserScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]domain.UserScore, 0, len(r.records))
	for _, record := range r.records {
		items = append(items, record)
	}
	slices.SortFunc(items, func(a, b domain.UserScore) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	if offset >= len(items) {
		return []domain.UserScore{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	out := make([]domain.UserScore, end-offset)
	copy(out, items[offset:end])
	return out, nil
}

func (r *ScoreRepository) CountGreaterThan(_ context.Context, score int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, record := range r.records {
		if record.Score > score {
			count++
		}
	}
	return count, nil
}

func (r *ScoreRepository) CountAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

// SourceCollections keeps lightweight stand-ins for the externally owned
// document stores. Seed methods mimic commits by the resource services.
type SourceCollections struct {
	mu           sync.RWMutex
	notes        map[string][]string        // author → note ids
	doubts       map[string][]string        // author → doubt ids
	doubtAnswers map[string]map[string]bool // doubt id → answer authors
	blogs        map[string][]string        // author → blog ids
	forumThreads map[string][]string        // author → thread ids
}

func (s *SourceCollections) SeedNote(author, noteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[author] = append(s.notes[author], noteID)
}

func (s *SourceCollections) SeedDoubt(author, doubtID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doubts[author] = append(s.doubts[author], doubtID)
}

func (s *SourceCollections) SeedAnswer(doubtID, author string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doubtAnswers[doubtID] == nil {
		s.doubtAnswers[doubtID] = make(map[string]bool)
	}
	s.doubtAnswers[doubtID][author] = true
}

func (s *SourceCollections) SeedBlog(author, blogID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blogs[author] = append(s.blogs[author], blogID)
}

func (s *SourceCollections) SeedForumThread(author, threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forumThreads[author] = append(s.forumThreads[author], threadID)
}

func (s *SourceCollections) CountNotesByAuthor(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes[userID]), nil
}

func (s *SourceCollections) CountDoubtsByAuthor(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doubts[userID]), nil
}

// CountDoubtsAnsweredBy counts distinct doubts, not individual answers.
func (s *SourceCollections) CountDoubtsAnsweredBy(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, authors := range s.doubtAnswers {
		if authors[userID] {
			count++
		}
	}
	return count, nil
}

func (s *SourceCollections) CountBlogsByAuthor(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blogs[userID]), nil
}

func (s *SourceCollections) CountForumThreadsByAuthor(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forumThreads[userID]), nil
}

type DedupStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func (d *DedupStore) MarkCounted(_ context.Context, key string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now().UTC()
	if expiry, ok := d.entries[key]; ok && expiry.After(now) {
		return false, nil
	}
	d.entries[key] = now.Add(ttl)
	return true, nil
}

type OutboxRepository struct {
	mu      sync.Mutex
	records map[string]ports.OutboxRecord
	order   []string
}

func (r *OutboxRepository) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[record.RecordID]; !exists {
		r.order = append(r.order, record.RecordID)
	}
	r.records[record.RecordID] = record
	return nil
}

func (r *OutboxRepository) ListPending(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.OutboxRecord, 0, limit)
	for _, id := range r.order {
		record := r.records[id]
		if record.SentAt != nil {
			continue
		}
		out = append(out, record)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, recordID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	record.SentAt = &at
	r.records[recordID] = record
	return nil
}
