package application

import (
	"log/slog"
	"time"

	"github.com/Anshulrazz/notexia-backend/internal/domain"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

type Config struct {
	ServiceName          string
	DedupTTL             time.Duration
	OutboxFlushBatchSize int
	LeaderboardMaxLimit  int
}

type Actor struct {
	SubjectID string
	Role      string
	RequestID string
}

type RecordContributionInput struct {
	UserID      string
	Kind        string
	SourceDocID string
	EventID     string
}

type RegisterUserInput struct {
	UserID string
	Name   string
	Avatar string
}

type LeaderboardInput struct {
	Page   int
	Limit  int
	Period string
}

type RecomputeReport struct {
	UsersProcessed int
	UsersTotal     int
	Failures       []string
}

type Service struct {
	cfg    Config
	rules  domain.RuleTable
	scores ports.ScoreRepository
	source ports.SourceCollections
	dedup  ports.ContributionDedupStore
	outbox ports.OutboxRepository

	domainEvents ports.DomainPublisher
	dlq          ports.DLQPublisher

	logger *slog.Logger
	nowFn  func() time.Time
}

type Dependencies struct {
	Config       Config
	Rules        domain.RuleTable
	Scores       ports.ScoreRepository
	Source       ports.SourceCollections
	Dedup        ports.ContributionDedupStore
	Outbox       ports.OutboxRepository
	DomainEvents ports.DomainPublisher
	DLQ          ports.DLQPublisher
	Logger       *slog.Logger
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "contribution-scoring"
	}
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = 30 * 24 * time.Hour
	}
	if cfg.OutboxFlushBatchSize <= 0 {
		cfg.OutboxFlushBatchSize = 100
	}
	if cfg.LeaderboardMaxLimit <= 0 {
		cfg.LeaderboardMaxLimit = 100
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:          cfg,
		rules:        deps.Rules,
		scores:       deps.Scores,
		source:       deps.Source,
		dedup:        deps.Dedup,
		outbox:       deps.Outbox,
		domainEvents: deps.DomainEvents,
		dlq:          deps.DLQ,
		logger:       logger,
		nowFn:        time.Now().UTC,
	}
}
