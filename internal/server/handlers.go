package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hal/ghfolio/internal/aggregate"
	"github.com/hal/ghfolio/internal/ghclient"
	"github.com/hal/ghfolio/internal/insight"
	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/quota"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	agg := aggregate.New(s.backend(r))

	profile, outcomes, err := agg.Profile(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	logDegraded(r, outcomes)
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	backend := s.backend(r)

	repos, err := backend.ListRepos(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

func (s *Server) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	agg := aggregate.New(s.backend(r))

	detail, outcomes, err := agg.ProjectDetail(r.Context(), owner, repo)
	if err != nil {
		writeError(w, err)
		return
	}
	logDegraded(r, outcomes)
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	agg := aggregate.New(s.backend(r))

	series, outcomes, err := agg.Activity(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	logDegraded(r, outcomes)
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	agg := aggregate.New(s.backend(r))

	users, outcomes, err := agg.SimilarUsers(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	logDegraded(r, outcomes)
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	backend := s.backend(r)

	user, err := backend.User(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	repos, err := backend.ListRepos(r.Context(), username)
	if err != nil {
		log.Debug("repo list failed, generating insights from profile only", "user", username, "error", err)
		repos = nil
	}

	writeJSON(w, http.StatusOK, insight.Generate(user, repos, time.Now()))
}

func (s *Server) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	status, err := quota.Fetch(r.Context(), s.backend(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rateLimitResponse{
		Status:               status,
		EffectiveTokenSource: string(status.Source),
	})
}

// rateLimitResponse spells out the effective token source at the top
// level for clients that only care which credential was used.
type rateLimitResponse struct {
	quota.Status
	EffectiveTokenSource string `json:"effectiveTokenSource"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("response encode failed", "error", err)
	}
}

// writeError maps hard aggregation failures onto HTTP statuses: missing
// primary resources are 404, an exhausted quota is 503, anything else
// from upstream is 502.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, ghclient.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ghclient.ErrRateLimited):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func logDegraded(r *http.Request, outcomes []aggregate.Outcome) {
	for _, failed := range aggregate.Failures(outcomes) {
		log.Debug("degraded sub-fetch", "path", r.URL.Path, "task", failed.Task, "error", failed.Err)
	}
}
