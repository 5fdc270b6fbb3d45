package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	eventadapter "github.com/Anshulrazz/notexia-backend/internal/adapters/events"
	httpadapter "github.com/Anshulrazz/notexia-backend/internal/adapters/http"
	"github.com/Anshulrazz/notexia-backend/internal/adapters/memory"
	"github.com/Anshulrazz/notexia-backend/internal/application"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

func newTestRouter(t *testing.T) (http.Handler, *memory.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	rules, err := domain.NewRuleTable(nil)
	if err != nil {
		t.Fatalf("rule table: %v", err)
	}
	svc := application.NewService(application.Dependencies{
		Rules:        rules,
		Scores:       repos.Scores,
		Source:       repos.Source,
		Dedup:        repos.Dedup,
		Outbox:       repos.Outbox,
		DomainEvents: eventadapter.NewMemoryDomainPublisher(),
	})
	return httpadapter.NewRouter(httpadapter.NewHandler(svc)), repos
}

func doJSON(t *testing.T, router http.Handler, method, path, body, subject, role string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+subject)
	}
	if role != "" {
		req.Header.Set("X-Actor-Role", role)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if envelope.Status != "success" {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func TestHealthEndpointsNeedNoAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/v1/leaderboard", "", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rec.Code)
	}
}

func TestRegisterAndRecordContribution(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/scoring/users", `{"user_id":"user_1","name":"Asha"}`, "svc-auth", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/scoring/contributions",
		`{"user_id":"user_1","kind":"note","source_doc_id":"note_1"}`, "svc-notes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("record returned %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		UserID  string `json:"user_id"`
		Points  int    `json:"points"`
		Score   int    `json:"score"`
		Applied bool   `json:"applied"`
	}
	decodeData(t, rec, &out)
	if !out.Applied || out.Points != 10 || out.Score != 10 {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestRecordContributionDuplicateReportsNotApplied(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/v1/scoring/users", `{"user_id":"user_1"}`, "svc-auth", "")
	body := `{"user_id":"user_1","kind":"blog","source_doc_id":"blog_1"}`

	doJSON(t, router, http.MethodPost, "/v1/scoring/contributions", body, "svc-blogs", "")
	rec := doJSON(t, router, http.MethodPost, "/v1/scoring/contributions", body, "svc-blogs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate returned %d, want 200", rec.Code)
	}
	var out struct {
		Applied bool `json:"applied"`
	}
	decodeData(t, rec, &out)
	if out.Applied {
		t.Fatal("duplicate contribution reported as applied")
	}
}

func TestRecordContributionUnknownUser(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/v1/scoring/contributions",
		`{"user_id":"ghost","kind":"note","source_doc_id":"n1"}`, "svc-notes", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRecordContributionUnknownKind(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/v1/scoring/users", `{"user_id":"user_1"}`, "svc-auth", "")
	rec := doJSON(t, router, http.MethodPost, "/v1/scoring/contributions",
		`{"user_id":"user_1","kind":"likes"}`, "svc-notes", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, id := range []string{"alice", "bob", "carol"} {
		doJSON(t, router, http.MethodPost, "/v1/scoring/users", `{"user_id":"`+id+`"}`, "svc-auth", "")
	}
	// alice and bob tie at 10, carol at 8.
	doJSON(t, router, http.MethodPost, "/v1/scoring/contributions", `{"user_id":"alice","kind":"note","source_doc_id":"n1"}`, "svc", "")
	doJSON(t, router, http.MethodPost, "/v1/scoring/contributions", `{"user_id":"bob","kind":"note","source_doc_id":"n2"}`, "svc", "")
	doJSON(t, router, http.MethodPost, "/v1/scoring/contributions", `{"user_id":"carol","kind":"blog","source_doc_id":"b1"}`, "svc", "")

	rec := doJSON(t, router, http.MethodGet, "/v1/leaderboard?limit=10&period=all", "", "viewer", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard returned %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Period  string `json:"period"`
		Total   int    `json:"total"`
		Entries []struct {
			UserID string `json:"user_id"`
			Rank   int    `json:"rank"`
			Score  int    `json:"score"`
		} `json:"entries"`
	}
	decodeData(t, rec, &out)
	if out.Total != 3 || len(out.Entries) != 3 {
		t.Fatalf("unexpected totals %+v", out)
	}
	if out.Entries[0].Rank != 1 || out.Entries[1].Rank != 1 || out.Entries[2].Rank != 3 {
		t.Fatalf("ranks = [%d %d %d], want [1 1 3]",
			out.Entries[0].Rank, out.Entries[1].Rank, out.Entries[2].Rank)
	}
}

func TestLeaderboardRejectsBadPeriod(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/v1/leaderboard?period=decade", "", "viewer", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad period, got %d", rec.Code)
	}
}

func TestMyRankEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/v1/scoring/users", `{"user_id":"user_1"}`, "svc-auth", "")
	doJSON(t, router, http.MethodPost, "/v1/scoring/contributions", `{"user_id":"user_1","kind":"doubt","source_doc_id":"d1"}`, "svc", "")

	rec := doJSON(t, router, http.MethodGet, "/v1/leaderboard/me", "", "user_1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("my rank returned %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		UserID string `json:"user_id"`
		Rank   int    `json:"rank"`
		Score  int    `json:"score"`
	}
	decodeData(t, rec, &out)
	if out.Rank != 1 || out.Score != 5 {
		t.Fatalf("unexpected rank response %+v", out)
	}
}

func TestRecomputeRequiresAdmin(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/v1/admin/scoring/recompute", "", "user_1", "user")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestRecomputeEndpoint(t *testing.T) {
	router, repos := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/v1/scoring/users", `{"user_id":"user_1"}`, "svc-auth", "")
	repos.Source.SeedNote("user_1", "note_1")
	repos.Source.SeedNote("user_1", "note_2")

	rec := doJSON(t, router, http.MethodPost, "/v1/admin/scoring/recompute", "", "ops_1", "admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("recompute returned %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		UsersProcessed int `json:"users_processed"`
		UsersTotal     int `json:"users_total"`
	}
	decodeData(t, rec, &out)
	if out.UsersProcessed != 1 || out.UsersTotal != 1 {
		t.Fatalf("unexpected report %+v", out)
	}

	record, err := repos.Scores.Get(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Score != 20 {
		t.Fatalf("recompute did not materialize, score %d", record.Score)
	}
}
