package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	MaxDBConns  int
	RedisURL    string

	DedupTTL             time.Duration
	ConsumerPollInterval time.Duration
	LeaderboardMaxLimit  int
	DLQTopic             string

	ScoringRules map[domain.ContributionKind]int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		DatabaseURL string `yaml:"database_url"`
		MaxDBConns  int    `yaml:"max_db_conns"`
		RedisURL    string `yaml:"redis_url"`
		TopicDLQ    string `yaml:"topic_dlq"`
	} `yaml:"dependencies"`
	Scoring struct {
		DedupTTLHours       int            `yaml:"dedup_ttl_hours"`
		LeaderboardMaxLimit int            `yaml:"leaderboard_max_limit"`
		Rules               map[string]int `yaml:"rules"`
	} `yaml:"scoring"`
}

// LoadConfig layers defaults, the yaml file and env overrides, then
// validates the scoring rule table. An unknown contribution kind in the
// rules is a startup failure; it must never surface at request time.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:            "contribution-scoring",
		HTTPPort:             8080,
		GRPCPort:             9090,
		MaxDBConns:           16,
		DedupTTL:             30 * 24 * time.Hour,
		ConsumerPollInterval: 2 * time.Second,
		LeaderboardMaxLimit:  100,
		DLQTopic:             "contribution-scoring.dlq",
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		cfg.DatabaseURL = f.Dependencies.DatabaseURL
		if f.Dependencies.MaxDBConns > 0 {
			cfg.MaxDBConns = f.Dependencies.MaxDBConns
		}
		cfg.RedisURL = f.Dependencies.RedisURL
		if f.Dependencies.TopicDLQ != "" {
			cfg.DLQTopic = f.Dependencies.TopicDLQ
		}
		if f.Scoring.DedupTTLHours > 0 {
			cfg.DedupTTL = time.Duration(f.Scoring.DedupTTLHours) * time.Hour
		}
		if f.Scoring.LeaderboardMaxLimit > 0 {
			cfg.LeaderboardMaxLimit = f.Scoring.LeaderboardMaxLimit
		}
		if len(f.Scoring.Rules) > 0 {
			cfg.ScoringRules = make(map[domain.ContributionKind]int, len(f.Scoring.Rules))
			for kind, points := range f.Scoring.Rules {
				cfg.ScoringRules[domain.NormalizeKind(kind)] = points
			}
		}
	}

	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.DLQTopic = envOrDefault("TOPIC_DLQ", cfg.DLQTopic)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = envInt("MAX_DB_CONNS", cfg.MaxDBConns)
	cfg.DedupTTL = time.Duration(envInt("DEDUP_TTL_HOURS", int(cfg.DedupTTL.Hours()))) * time.Hour
	cfg.ConsumerPollInterval = time.Duration(envInt("CONSUMER_POLL_SECONDS", int(cfg.ConsumerPollInterval.Seconds()))) * time.Second
	cfg.LeaderboardMaxLimit = envInt("LEADERBOARD_MAX_LIMIT", cfg.LeaderboardMaxLimit)

	if _, err := domain.NewRuleTable(cfg.ScoringRules); err != nil {
		return Config{}, fmt.Errorf("scoring rules: %w", err)
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
