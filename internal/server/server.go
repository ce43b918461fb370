// Package server exposes the portfolio aggregations as a JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gh "github.com/google/go-github/v57/github"
	"github.com/hal/ghfolio/internal/credential"
	"github.com/hal/ghfolio/internal/ghclient"
	"github.com/hal/ghfolio/internal/log"
)

// Backend is the per-request GitHub surface the handlers consume.
type Backend interface {
	ghclient.API
	RateLimits(ctx context.Context) (*gh.RateLimits, error)
	CredentialSource() credential.Source
}

// BackendFactory builds a backend for the credential resolved from one
// request. The default factory wraps ghclient.NewClient.
type BackendFactory func(ctx context.Context, cred credential.Resolved) Backend

// Server routes portfolio API requests.
type Server struct {
	serverToken string
	factory     BackendFactory
}

// Option configures a Server.
type Option func(*Server)

// WithBackendFactory swaps the GitHub client constructor, used by tests.
func WithBackendFactory(f BackendFactory) Option {
	return func(s *Server) {
		s.factory = f
	}
}

// New creates a Server. serverToken may be empty; requests then run on
// the caller-supplied token or anonymously.
func New(serverToken string, opts ...Option) *Server {
	s := &Server{
		serverToken: serverToken,
		factory: func(ctx context.Context, cred credential.Resolved) Backend {
			return ghclient.NewClient(ctx, cred)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users/{username}", s.handleProfile)
		r.Get("/users/{username}/repos", s.handleRepos)
		r.Get("/users/{username}/activity", s.handleActivity)
		r.Get("/users/{username}/similar", s.handleSimilar)
		r.Get("/users/{username}/insights", s.handleInsights)
		r.Get("/repos/{owner}/{repo}", s.handleProjectDetail)
		r.Get("/rate-limit", s.handleRateLimit)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

// ListenAndServe runs the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// backend resolves the request credential and builds a client for it.
// A token query parameter or Authorization header supplies the client
// token; the server token, when configured, always wins.
func (s *Server) backend(r *http.Request) Backend {
	cred := credential.Resolve(clientToken(r), s.serverToken)
	log.Trace("request credential resolved", "source", cred.Source(), "path", r.URL.Path)
	return s.factory(r.Context(), cred)
}

func clientToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	for _, scheme := range []string{"Bearer ", "token "} {
		if strings.HasPrefix(auth, scheme) {
			return strings.TrimSpace(strings.TrimPrefix(auth, scheme))
		}
	}
	return ""
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond).String())
	})
}
