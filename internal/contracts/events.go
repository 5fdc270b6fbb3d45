package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	EventClass       string          `json:"event_class,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type UserRegisteredPayload struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
	RegisteredAt string `json:"registered_at"`
}

type ContributionRecordedPayload struct {
	UserID      string `json:"user_id"`
	Kind        string `json:"kind"`
	SourceDocID string `json:"source_doc_id"`
	RecordedAt  string `json:"recorded_at"`
}

type ReconciliationRequestedPayload struct {
	RequestedBy string `json:"requested_by"`
	RequestedAt string `json:"requested_at"`
}

type ScoreUpdatedPayload struct {
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	Points    int    `json:"points"`
	Score     int    `json:"score"`
	UpdatedAt string `json:"updated_at"`
}

type ReconciliationCompletedPayload struct {
	UsersProcessed int    `json:"users_processed"`
	UsersTotal     int    `json:"users_total"`
	CompletedAt    string `json:"completed_at"`
}

type DLQRecord struct {
	OriginalEvent EventEnvelope `json:"original_event"`
	ErrorSummary  string        `json:"error_summary"`
	RetryCount    int           `json:"retry_count"`
	FirstSeenAt   time.Time     `json:"first_seen_at"`
	LastErrorAt   time.Time     `json:"last_error_at"`
	SourceTopic   string        `json:"source_topic,omitempty"`
	TraceID       string        `json:"trace_id,omitempty"`
}
