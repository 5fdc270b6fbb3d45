package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Anshulrazz/notexia-backend/internal/adapters/memory"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
	"github.com/Anshulrazz/notexia-backend/internal/ports"
)

func TestApplyDeltaConcurrent(t *testing.T) {
	repos := memory.NewRepositories()
	ctx := context.Background()
	if err := repos.Scores.Create(ctx, domain.UserScore{UserID: "user_1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Scores.ApplyDelta(ctx, "user_1", ports.ScoreDelta{Points: 10, Kind: domain.KindNoteAuthored}, time.Now().UTC())
			if err != nil {
				t.Errorf("apply delta: %v", err)
			}
		}()
	}
	wg.Wait()

	record, err := repos.Scores.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Score != workers*10 || record.Stats.NotesCount != workers {
		t.Fatalf("lost increments: score=%d notes=%d", record.Score, record.Stats.NotesCount)
	}
}

func TestApplyDeltaMissingUser(t *testing.T) {
	repos := memory.NewRepositories()
	_, err := repos.Scores.ApplyDelta(context.Background(), "ghost", ports.ScoreDelta{Points: 10, Kind: domain.KindNoteAuthored}, time.Now().UTC())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n, _ := repos.Scores.CountAll(context.Background()); n != 0 {
		t.Fatalf("missing user apply created a record, count %d", n)
	}
}

func TestListTopOrderAndPaging(t *testing.T) {
	repos := memory.NewRepositories()
	ctx := context.Background()
	seed := map[string]int{"dana": 40, "bob": 50, "alice": 50, "carol": 30}
	for id, score := range seed {
		if err := repos.Scores.Create(ctx, domain.UserScore{UserID: id, Score: score}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	top, err := repos.Scores.ListTop(ctx, 3, 0)
	if err != nil {
		t.Fatalf("list top: %v", err)
	}
	wantIDs := []string{"alice", "bob", "dana"}
	for i, want := range wantIDs {
		if top[i].UserID != want {
			t.Fatalf("position %d = %s, want %s (ties break on user id)", i, top[i].UserID, want)
		}
	}

	rest, err := repos.Scores.ListTop(ctx, 3, 3)
	if err != nil {
		t.Fatalf("list page two: %v", err)
	}
	if len(rest) != 1 || rest[0].UserID != "carol" {
		t.Fatalf("unexpected second page %+v", rest)
	}

	empty, err := repos.Scores.ListTop(ctx, 3, 10)
	if err != nil || len(empty) != 0 {
		t.Fatalf("offset past end: %v %v", empty, err)
	}
}

func TestCountGreaterThan(t *testing.T) {
	repos := memory.NewRepositories()
	ctx := context.Background()
	for id, score := range map[string]int{"a": 100, "b": 50, "c": 50, "d": 10} {
		if err := repos.Scores.Create(ctx, domain.UserScore{UserID: id, Score: score}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	got, err := repos.Scores.CountGreaterThan(ctx, 50)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got != 1 {
		t.Fatalf("count greater than 50 = %d, want 1 (ties excluded)", got)
	}
}

func TestDedupStoreTTL(t *testing.T) {
	repos := memory.NewRepositories()
	ctx := context.Background()

	fresh, err := repos.Dedup.MarkCounted(ctx, "u:note_authored:n1", time.Hour)
	if err != nil || !fresh {
		t.Fatalf("first mark: fresh=%v err=%v", fresh, err)
	}
	fresh, err = repos.Dedup.MarkCounted(ctx, "u:note_authored:n1", time.Hour)
	if err != nil || fresh {
		t.Fatalf("second mark: fresh=%v err=%v", fresh, err)
	}

	// Expired entries are reclaimed.
	fresh, err = repos.Dedup.MarkCounted(ctx, "u:note_authored:n2", -time.Second)
	if err != nil || !fresh {
		t.Fatalf("expired seed: fresh=%v err=%v", fresh, err)
	}
	fresh, err = repos.Dedup.MarkCounted(ctx, "u:note_authored:n2", time.Hour)
	if err != nil || !fresh {
		t.Fatalf("mark after expiry: fresh=%v err=%v", fresh, err)
	}
}

func TestDistinctDoubtAnswers(t *testing.T) {
	repos := memory.NewRepositories()
	ctx := context.Background()
	repos.Source.SeedDoubt("asker", "doubt_1")
	repos.Source.SeedDoubt("asker", "doubt_2")
	repos.Source.SeedAnswer("doubt_1", "helper")
	repos.Source.SeedAnswer("doubt_1", "helper")
	repos.Source.SeedAnswer("doubt_2", "helper")

	got, err := repos.Source.CountDoubtsAnsweredBy(ctx, "helper")
	if err != nil {
		t.Fatalf("count answered: %v", err)
	}
	if got != 2 {
		t.Fatalf("answered count = %d, want 2 distinct doubts", got)
	}
}
