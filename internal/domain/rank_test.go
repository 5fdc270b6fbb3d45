package domain_test

import (
	"testing"

	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

func scores(values ...int) []domain.UserScore {
	out := make([]domain.UserScore, 0, len(values))
	for i, v := range values {
		out = append(out, domain.UserScore{UserID: string(rune('a' + i)), Score: v})
	}
	return out
}

func ranksOf(entries []domain.RankedEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Rank)
	}
	return out
}

func TestCompetitionRanksSkipAfterTie(t *testing.T) {
	ranked := domain.AssignCompetitionRanks(scores(50, 50, 40), 0, 0)
	want := []int{1, 1, 3}
	got := ranksOf(ranked)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranks = %v, want %v", got, want)
		}
	}
}

func TestCompetitionRanksDistinctScores(t *testing.T) {
	ranked := domain.AssignCompetitionRanks(scores(90, 70, 60, 10), 0, 0)
	want := []int{1, 2, 3, 4}
	got := ranksOf(ranked)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranks = %v, want %v", got, want)
		}
	}
}

func TestCompetitionRanksPageStartsMidTie(t *testing.T) {
	// Full ordering: 50 a, 50 b, 50 c, 40 d. Page two of size two starts at
	// the third tied entry; nobody scores above 50, so its rank is still 1.
	page := scores(50, 40)
	ranked := domain.AssignCompetitionRanks(page, 2, 0)
	if ranked[0].Rank != 1 {
		t.Fatalf("mid-tie page start rank = %d, want 1", ranked[0].Rank)
	}
	if ranked[1].Rank != 4 {
		t.Fatalf("post-tie rank = %d, want 4", ranked[1].Rank)
	}
}

func TestCompetitionRanksLaterPage(t *testing.T) {
	// Full ordering: 100, 90, 80, 70; page two holds 80 and 70.
	ranked := domain.AssignCompetitionRanks(scores(80, 70), 2, 2)
	if ranked[0].Rank != 3 || ranked[1].Rank != 4 {
		t.Fatalf("ranks = %v, want [3 4]", ranksOf(ranked))
	}
}

func TestCompetitionRanksEmptyPage(t *testing.T) {
	if got := domain.AssignCompetitionRanks(nil, 0, 0); len(got) != 0 {
		t.Fatalf("expected no ranked entries, got %d", len(got))
	}
}
