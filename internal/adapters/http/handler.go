package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Anshulrazz/notexia-backend/internal/application"
	"github.com/Anshulrazz/notexia-backend/internal/contracts"
	"github.com/Anshulrazz/notexia-backend/internal/domain"
)

type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req contracts.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	record, err := h.service.RegisterUser(r.Context(), application.RegisterUserInput{
		UserID: req.UserID,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, "", record)
}

// recordContribution is the action-completion hook: the source document is
// already committed when this runs, so errors here inform the caller but
// must not be treated as a failure of the contribution itself.
func (h *Handler) recordContribution(w http.ResponseWriter, r *http.Request) {
	var req contracts.RecordContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	record, points, err := h.service.RecordContribution(r.Context(), application.RecordContributionInput{
		UserID:      strings.TrimSpace(req.UserID),
		Kind:        req.Kind,
		SourceDocID: strings.TrimSpace(req.SourceDocID),
	})
	if err == domain.ErrDuplicateContribution {
		writeSuccess(w, http.StatusOK, "already counted", contracts.RecordContributionResponse{
			UserID: strings.TrimSpace(req.UserID), Kind: string(domain.NormalizeKind(req.Kind)), Applied: false,
		})
		return
	}
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", contracts.RecordContributionResponse{
		UserID:  record.UserID,
		Kind:    string(domain.NormalizeKind(req.Kind)),
		Points:  points,
		Score:   record.Score,
		Applied: true,
	})
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Leaderboard(r.Context(), application.LeaderboardInput{
		Page:   parseIntOrDefault(r.URL.Query().Get("page"), 1),
		Limit:  parseIntOrDefault(r.URL.Query().Get("limit"), 50),
		Period: r.URL.Query().Get("period"),
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", out)
}

func (h *Handler) getMyRank(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.MyRank(r.Context(), actorFromContext(r.Context()))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", out)
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RecomputeAll(r.Context())
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", contracts.RecomputeResponse{
		UsersProcessed: report.UsersProcessed,
		UsersTotal:     report.UsersTotal,
		Failures:       report.Failures,
	})
}

func parseIntOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
