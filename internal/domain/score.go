package domain

import (
	"strings"
	"time"
)

// ContributionKind categorizes a scorable user action.
type ContributionKind string

const (
	KindNoteAuthored       ContributionKind = "note_authored"
	KindDoubtAsked         ContributionKind = "doubt_asked"
	KindDoubtAnswered      ContributionKind = "doubt_answered"
	KindBlogAuthored       ContributionKind = "blog_authored"
	KindForumThreadStarted ContributionKind = "forum_thread_started"
)

// ContributionStats is the fixed-shape per-user breakdown backing the score.
// Every field is a non-negative count derived from one source collection.
type ContributionStats struct {
	NotesCount     int `json:"notes_count"`
	DoubtsAsked    int `json:"doubts_asked"`
	DoubtsAnswered int `json:"doubts_answered"`
	BlogsCount     int `json:"blogs_count"`
	ForumThreads   int `json:"forum_threads"`
}

// UserScore is the materialized record this service owns. It is updated
// incrementally at contribution time and replaced wholesale by reconciliation.
type UserScore struct {
	UserID    string            `json:"user_id"`
	Name      string            `json:"name,omitempty"`
	Avatar    string            `json:"avatar,omitempty"`
	Score     int               `json:"score"`
	Stats     ContributionStats `json:"stats"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ContributionEvent identifies one scored action exactly once:
// the same (user, kind, source document) must never be counted twice.
type ContributionEvent struct {
	UserID      string
	Kind        ContributionKind
	SourceDocID string
	OccurredAt  time.Time
}

// DedupKey is the idempotency key for a contribution event. Empty when the
// caller did not supply a source document id; dedup is skipped in that case.
func (e ContributionEvent) DedupKey() string {
	if strings.TrimSpace(e.SourceDocID) == "" {
		return ""
	}
	return e.UserID + ":" + string(e.Kind) + ":" + e.SourceDocID
}

func NormalizeKind(raw string) ContributionKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "note", "note_authored", "notes":
		return KindNoteAuthored
	case "doubt", "doubt_asked", "doubt_created":
		return KindDoubtAsked
	case "answer", "doubt_answered":
		return KindDoubtAnswered
	case "blog", "blog_authored":
		return KindBlogAuthored
	case "thread", "forum_thread", "forum_thread_started":
		return KindForumThreadStarted
	default:
		return ContributionKind(strings.ToLower(strings.TrimSpace(raw)))
	}
}

func NormalizePeriod(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return "all"
	case "week", "month":
		return strings.ToLower(strings.TrimSpace(raw))
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

// ValidatePeriod accepts the period selector for forward compatibility.
// Windowed leaderboards are not computed; "all" semantics apply regardless.
func ValidatePeriod(raw string) error {
	switch NormalizePeriod(raw) {
	case "all", "week", "month":
		return nil
	default:
		return ErrInvalidInput
	}
}
