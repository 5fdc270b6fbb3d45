package postgres

import "time"

type userScoreModel struct {
	UserID         string    `gorm:"column:user_id;primaryKey"`
	Name           string    `gorm:"column:name"`
	Avatar         string    `gorm:"column:avatar"`
	Score          int       `gorm:"column:score"`
	NotesCount     int       `gorm:"column:notes_count"`
	DoubtsAsked    int       `gorm:"column:doubts_asked"`
	DoubtsAnswered int       `gorm:"column:doubts_answered"`
	BlogsCount     int       `gorm:"column:blogs_count"`
	ForumThreads   int       `gorm:"column:forum_threads"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (userScoreModel) TableName() string { return "user_scores" }

type noteModel struct {
	NoteID     string    `gorm:"column:note_id;primaryKey"`
	AuthorID   string    `gorm:"column:author_id"`
	UploadedAt time.Time `gorm:"column:uploaded_at"`
}

func (noteModel) TableName() string { return "notes" }

type doubtModel struct {
	DoubtID  string    `gorm:"column:doubt_id;primaryKey"`
	AuthorID string    `gorm:"column:author_id"`
	AskedAt  time.Time `gorm:"column:asked_at"`
}

func (doubtModel) TableName() string { return "doubts" }

type doubtAnswerModel struct {
	AnswerID   string    `gorm:"column:answer_id;primaryKey"`
	DoubtID    string    `gorm:"column:doubt_id"`
	AuthorID   string    `gorm:"column:author_id"`
	AnsweredAt time.Time `gorm:"column:answered_at"`
}

func (doubtAnswerModel) TableName() string { return "doubt_answers" }

type blogModel struct {
	BlogID      string    `gorm:"column:blog_id;primaryKey"`
	AuthorID    string    `gorm:"column:author_id"`
	PublishedAt time.Time `gorm:"column:published_at"`
}

func (blogModel) TableName() string { return "blogs" }

type forumThreadModel struct {
	ThreadID  string    `gorm:"column:thread_id;primaryKey"`
	ForumID   string    `gorm:"column:forum_id"`
	AuthorID  string    `gorm:"column:author_id"`
	StartedAt time.Time `gorm:"column:started_at"`
}

func (forumThreadModel) TableName() string { return "forum_threads" }

type contributionDedupModel struct {
	DedupKey  string    `gorm:"column:dedup_key;primaryKey"`
	CountedAt time.Time `gorm:"column:counted_at"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (contributionDedupModel) TableName() string { return "contribution_dedup" }

type outboxModel struct {
	RecordID   string     `gorm:"column:record_id;primaryKey"`
	EventClass string     `gorm:"column:event_class"`
	Envelope   string     `gorm:"column:envelope"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	SentAt     *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "scoring_outbox" }
