package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Anshulrazz/notexia-backend/internal/contracts"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

// DedupStore persists counted contribution-event keys next to the increments
// they guard. A duplicate insert means the event was already counted.
type DedupStore struct {
	db *gorm.DB
}

func NewDedupStore(db *gorm.DB) *DedupStore {
	return &DedupStore{db: db}
}

func (s *DedupStore) MarkCounted(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	rec := contributionDedupModel{DedupKey: key, CountedAt: now, ExpiresAt: now.Add(ttl)}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing contributionDedupModel
			if lookupErr := s.db.WithContext(ctx).Where("dedup_key = ?", key).Take(&existing).Error; lookupErr == nil && existing.ExpiresAt.Before(now) {
				// Expired entry: refresh it and count the event again.
				if updateErr := s.db.WithContext(ctx).Model(&contributionDedupModel{}).
					Where("dedup_key = ?", key).
					UpdateColumns(map[string]any{"counted_at": now, "expires_at": now.Add(ttl)}).Error; updateErr != nil {
					return false, wrapStoreErr(updateErr)
				}
				return true, nil
			}
			return false, nil
		}
		return false, wrapStoreErr(err)
	}
	return true, nil
}

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, record ports.OutboxRecord) error {
	envelope, err := json.Marshal(record.Envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	rec := outboxModel{
		RecordID:   record.RecordID,
		EventClass: record.EventClass,
		Envelope:   string(envelope),
		CreatedAt:  record.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	out := make([]ports.OutboxRecord, 0, len(rows))
	for _, row := range rows {
		var envelope contracts.EventEnvelope
		if err := json.Unmarshal([]byte(row.Envelope), &envelope); err != nil {
			return nil, fmt.Errorf("unmarshal envelope %s: %w", row.RecordID, err)
		}
		out = append(out, ports.OutboxRecord{
			RecordID:   row.RecordID,
			EventClass: row.EventClass,
			Envelope:   envelope,
			CreatedAt:  row.CreatedAt,
			SentAt:     row.SentAt,
		})
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, recordID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("record_id = ?", recordID).
		UpdateColumn("sent_at", at)
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	return nil
}
