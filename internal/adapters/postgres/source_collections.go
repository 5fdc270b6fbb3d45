package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

// SourceCollections runs read-only count queries against the resource
// services' tables. Nothing in this adapter writes to them.
type SourceCollections struct {
	db *gorm.DB
}

func NewSourceCollections(db *gorm.DB) *SourceCollections {
	return &SourceCollections{db: db}
}

func (s *SourceCollections) CountNotesByAuthor(ctx context.Context, userID string) (int, error) {
	return s.countBy(ctx, &noteModel{}, "author_id = ?", userID)
}

func (s *SourceCollections) CountDoubtsByAuthor(ctx context.Context, userID string) (int, error) {
	return s.countBy(ctx, &doubtModel{}, "author_id = ?", userID)
}

// CountDoubtsAnsweredBy counts distinct doubts with at least one answer by
// the user. Multiple answers to the same doubt count once.
func (s *SourceCollections) CountDoubtsAnsweredBy(ctx context.Context, userID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&doubtAnswerModel{}).
		Where("author_id = ?", userID).
		Distinct("doubt_id").
		Count(&count).Error
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	return int(count), nil
}

func (s *SourceCollections) CountBlogsByAuthor(ctx context.Context, userID string) (int, error) {
	return s.countBy(ctx, &blogModel{}, "author_id = ?", userID)
}

func (s *SourceCollections) CountForumThreadsByAuthor(ctx context.Context, userID string) (int, error) {
	return s.countBy(ctx, &forumThreadModel{}, "author_id = ?", userID)
}

func (s *SourceCollections) countBy(ctx context.Context, model any, query string, args ...any) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return 0, wrapStoreErr(err)
	}
	return int(count), nil
}

// wrapStoreErr tags transient store failures so callers can surface them as
// retryable rather than generic internal errors.
func wrapStoreErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
