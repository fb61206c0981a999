// Package server implements the HTTP API: the layout contract, link
// previews, credential auth with revocable sessions, and admin user
// management.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maajidpp/linkza/internal/auth"
	"github.com/maajidpp/linkza/pkg/layout"
	"github.com/maajidpp/linkza/pkg/preview"
	"github.com/maajidpp/linkza/pkg/session"
	"github.com/maajidpp/linkza/pkg/tile"
)

// UserStore is the account storage the server needs. *mongo.UserRepo
// implements it; tests substitute fakes.
type UserStore interface {
	Create(ctx context.Context, u *auth.User) (*auth.User, error)
	GetByID(ctx context.Context, id string) (*auth.User, error)
	GetByEmail(ctx context.Context, email string) (*auth.User, error)
	GetByUsername(ctx context.Context, username string) (*auth.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]*auth.User, error)
	SetStatus(ctx context.Context, id, status string) error
	SetRole(ctx context.Context, id, role string) error
	TouchLogin(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// LayoutStore is the layout storage the server needs. *mongo.LayoutRepo
// implements it.
type LayoutStore interface {
	GetByUserID(ctx context.Context, userID string) (*layout.Layout, error)
	Upsert(ctx context.Context, userID string, tiles []*tile.Tile, revision int64) (*layout.Layout, error)
	Delete(ctx context.Context, userID string) error
	TileCount(ctx context.Context, userID string) (int, error)
}

// Server holds the API's collaborators and its router.
type Server struct {
	users    UserStore
	layouts  LayoutStore
	sessions session.Store
	tokens   *auth.Tokens
	scraper  *preview.Scraper
	limiter  Limiter
	logger   *log.Logger
	metrics  *Metrics
	router   chi.Router
}

// Options configures a Server. Users, Layouts, Sessions, and Tokens are
// required; the rest default to working no-op or in-memory collaborators.
type Options struct {
	Users    UserStore
	Layouts  LayoutStore
	Sessions session.Store
	Tokens   *auth.Tokens
	Scraper  *preview.Scraper
	Limiter  Limiter
	Logger   *log.Logger
	Metrics  *Metrics
}

// New assembles the server and mounts all routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Limiter == nil {
		opts.Limiter = NewMemoryLimiter(10, time.Minute)
	}
	if opts.Scraper == nil {
		opts.Scraper = preview.NewScraper(nil)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	s := &Server{
		users:    opts.Users,
		layouts:  opts.Layouts,
		sessions: opts.Sessions,
		tokens:   opts.Tokens,
		scraper:  opts.Scraper,
		limiter:  opts.Limiter,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.With(s.rateLimited).Post("/register", s.handleRegister)
		r.With(s.rateLimited).Post("/login", s.handleLogin)
		r.Get("/username/check", s.handleUsernameCheck)
		r.With(s.rateLimited).Get("/link-preview", s.handleLinkPreview)

		// The layout GET serves both the public and the owner path, so
		// authentication is resolved lazily inside the handler.
		r.Get("/layout", s.handleGetLayout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/layout", s.handleSaveLayout)
			r.Post("/logout", s.handleLogout)
			r.Get("/sessions", s.handleListSessions)
			r.Delete("/sessions/{sessionID}", s.handleRevokeSession)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAuth, s.requireAdmin)
			r.Get("/users", s.handleListUsers)
			r.Get("/users/{userID}", s.handleGetUser)
			r.Patch("/users/{userID}", s.handleUpdateUser)
			r.Delete("/users/{userID}", s.handleDeleteUser)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
