package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/Anshulrazz/notexia-backend/internal/adapters/cache"
	eventadapter "github.com/Anshulrazz/notexia-backend/internal/adapters/events"
	grpcadapter "github.com/Anshulrazz/notexia-backend/internal/adapters/grpc"
	httpadapter "github.com/Anshulrazz/notexia-backend/internal/adapters/http"
	"github.com/Anshulrazz/notexia-backend/internal/adapters/memory"
	"github.com/Anshulrazz/notexia-backend/internal/adapters/postgres"
	"github.com/Anshulrazz/notexia-backend/internal/application"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	worker     *eventadapter.Worker
	consumer   *eventadapter.MemoryConsumer
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	// Rule table is validated again here so a bad table can never reach the
	// request path, even when LoadConfig is bypassed in tests.
	rules, err := domain.NewRuleTable(cfg.ScoringRules)
	if err != nil {
		return nil, err
	}

	var scores ports.ScoreRepository
	var source ports.SourceCollections
	var dedup ports.ContributionDedupStore
	var outbox ports.OutboxRepository

	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, int32(cfg.MaxDBConns))
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return nil, err
		}
		scores = postgres.NewScoreRepository(db)
		source = postgres.NewSourceCollections(db)
		dedup = postgres.NewDedupStore(db)
		outbox = postgres.NewOutboxRepository(db)
	} else {
		logger.WarnContext(ctx, "no database url configured, using in-memory stores")
		repos := memory.NewRepositories()
		scores = repos.Scores
		source = repos.Source
		dedup = repos.Dedup
		outbox = repos.Outbox
	}

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		dedup = cache.NewRedisDedupStore(client)
	}

	domainPublisher := eventadapter.NewMemoryDomainPublisher()
	dlqPublisher := eventadapter.NewLoggingDLQPublisher(logger)

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:         cfg.ServiceID,
			DedupTTL:            cfg.DedupTTL,
			LeaderboardMaxLimit: cfg.LeaderboardMaxLimit,
		},
		Rules:        rules,
		Scores:       scores,
		Source:       source,
		Dedup:        dedup,
		Outbox:       outbox,
		DomainEvents: domainPublisher,
		DLQ:          dlqPublisher,
		Logger:       logger,
	})

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcadapter.Register(grpcServer, grpcadapter.NewScoringInternalServer(service))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return nil, err
	}

	consumer := eventadapter.NewMemoryConsumer()
	worker := eventadapter.NewWorker(logger, consumer, dlqPublisher, service, cfg.ConsumerPollInterval, cfg.DLQTopic)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		worker:     worker,
		consumer:   consumer,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		if err := r.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
