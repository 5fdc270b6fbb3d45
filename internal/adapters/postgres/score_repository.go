package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Anshulrazz/notexia-backend/internal/domain"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

type ScoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

var statColumns = map[domain.ContributionKind]string{
	domain.KindNoteAuthored:       "notes_count",
	domain.KindDoubtAsked:         "doubts_asked",
	domain.KindDoubtAnswered:      "doubts_answered",
	domain.KindBlogAuthored:       "blogs_count",
	domain.KindForumThreadStarted: "forum_threads",
}

func (r *ScoreRepository) Create(ctx context.Context, record domain.UserScore) error {
	rec := userScoreModel{
		UserID:    record.UserID,
		Name:      record.Name,
		Avatar:    record.Avatar,
		Score:     record.Score,
		CreatedAt: record.UpdatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return wrapStoreErr(err)
	}
	return nil
}

func (r *ScoreRepository) Get(ctx context.Context, userID string) (domain.UserScore, error) {
	var rec userScoreModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserScore{}, domain.ErrNotFound
		}
		return domain.UserScore{}, wrapStoreErr(err)
	}
	return toDomainScore(rec), nil
}

// ApplyDelta issues one UPDATE with server-side increments, so concurrent
// appliers for the same user compose instead of racing through a fetched
// value. RowsAffected 0 means the record does not exist; it is not created.
func (r *ScoreRepository) ApplyDelta(ctx context.Context, userID string, delta ports.ScoreDelta, at time.Time) (domain.UserScore, error) {
	column, ok := statColumns[delta.Kind]
	if !ok {
		return domain.UserScore{}, domain.ErrUnknownKind
	}
	result := r.db.WithContext(ctx).
		Model(&userScoreModel{}).
		Where("user_id = ?", userID).
		UpdateColumns(map[string]any{
			"score":      gorm.Expr("score + ?", delta.Points),
			column:       gorm.Expr(column + " + 1"),
			"updated_at": at,
		})
	if result.Error != nil {
		return domain.UserScore{}, wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.UserScore{}, domain.ErrNotFound
	}
	return r.Get(ctx, userID)
}

func (r *ScoreRepository) Replace(ctx context.Context, userID string, score int, stats domain.ContributionStats, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&userScoreModel{}).
		Where("user_id = ?", userID).
		UpdateColumns(map[string]any{
			"score":           score,
			"notes_count":     stats.NotesCount,
			"doubts_asked":    stats.DoubtsAsked,
			"doubts_answered": stats.DoubtsAnswered,
			"blogs_count":     stats.BlogsCount,
			"forum_threads":   stats.ForumThreads,
			"updated_at":      at,
		})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ScoreRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&userScoreModel{}).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return ids, nil
}

func (r *ScoreRepository) ListTop(ctx context.Context, limit, offset int) ([]domain.UserScore, error) {
	var rows []userScoreModel
	if err := r.db.WithContext(ctx).
		Order("score DESC, user_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	out := make([]domain.UserScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainScore(row))
	}
	return out, nil
}

func (r *ScoreRepository) CountGreaterThan(ctx context.Context, score int) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userScoreModel{}).
		Where("score > ?", score).
		Count(&count).Error; err != nil {
		return 0, wrapStoreErr(err)
	}
	return int(count), nil
}

func (r *ScoreRepository) CountAll(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userScoreModel{}).Count(&count).Error; err != nil {
		return 0, wrapStoreErr(err)
	}
	return int(count), nil
}

func toDomainScore(rec userScoreModel) domain.UserScore {
	return domain.UserScore{
		UserID: rec.UserID,
		Name:   rec.Name,
		Avatar: rec.Avatar,
		Score:  rec.Score,
		Stats: domain.ContributionStats{
			NotesCount:     rec.NotesCount,
			DoubtsAsked:    rec.DoubtsAsked,
			DoubtsAnswered: rec.DoubtsAnswered,
			BlogsCount:     rec.BlogsCount,
			ForumThreads:   rec.ForumThreads,
		},
		UpdatedAt: rec.UpdatedAt,
	}
}
