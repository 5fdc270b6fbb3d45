package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.ServiceID != "contribution-scoring" || cfg.HTTPPort != 8080 || cfg.GRPCPort != 9090 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LeaderboardMaxLimit != 100 {
		t.Fatalf("unexpected leaderboard limit %d", cfg.LeaderboardMaxLimit)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
service:
  id: scoring-staging
  http_port: 8180
scoring:
  dedup_ttl_hours: 48
  rules:
    note: 10
    doubt: 5
    answer: 5
    blog: 8
    forum_thread: 8
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceID != "scoring-staging" || cfg.HTTPPort != 8180 {
		t.Fatalf("file values not applied %+v", cfg)
	}
	if cfg.DedupTTL.Hours() != 48 {
		t.Fatalf("ttl not applied: %v", cfg.DedupTTL)
	}
	if cfg.ScoringRules[domain.KindNoteAuthored] != 10 {
		t.Fatalf("rule aliases not normalized: %+v", cfg.ScoringRules)
	}
}

func TestLoadConfigRejectsUnknownRuleKind(t *testing.T) {
	path := writeConfig(t, `
scoring:
  rules:
    note: 10
    doubt: 5
    answer: 5
    blog: 8
    forum_thread: 8
    likes: 1
`)
	_, err := LoadConfig(path)
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Fatalf("expected startup failure for unknown kind, got %v", err)
	}
}

func TestLoadConfigRejectsIncompleteRules(t *testing.T) {
	path := writeConfig(t, `
scoring:
  rules:
    note: 10
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected incomplete rule table to fail startup")
	}
}
