// Package api provides the HTTP API server and handlers for the Critique application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/critiqueapp/critique-server/internal/auth"
	"github.com/critiqueapp/critique-server/internal/http/response"
	"github.com/critiqueapp/critique-server/internal/ratelimit"
	"github.com/critiqueapp/critique-server/internal/service"
	"github.com/critiqueapp/critique-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	tokens          *auth.TokenService
	authService     *service.AuthService
	userService     *service.UserService
	categoryService *service.CategoryService
	genreService    *service.GenreService
	titleService    *service.TitleService
	reviewService   *service.ReviewService
	commentService  *service.CommentService
	authLimiter     *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	logger          *slog.Logger
}

// Config carries the transport-level knobs.
type Config struct {
	// AllowedOrigins for CORS. Empty means same-origin only.
	AllowedOrigins []string
	// AuthRPS and AuthBurst bound the per-IP rate on the two
	// unauthenticated auth endpoints.
	AuthRPS   float64
	AuthBurst int
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg Config,
	store store.Store,
	tokens *auth.TokenService,
	authService *service.AuthService,
	userService *service.UserService,
	categoryService *service.CategoryService,
	genreService *service.GenreService,
	titleService *service.TitleService,
	reviewService *service.ReviewService,
	commentService *service.CommentService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		store:           store,
		tokens:          tokens,
		authService:     authService,
		userService:     userService,
		categoryService: categoryService,
		genreService:    genreService,
		titleService:    titleService,
		reviewService:   reviewService,
		commentService:  commentService,
		authLimiter:     ratelimit.New(cfg.AuthRPS, cfg.AuthBurst),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware(cfg)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(cfg.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1. The bearer middleware attaches the caller when a token is
	// present; reads stay open to anonymous callers and the services
	// decide the rest.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.attachUser)

		// Auth endpoints (public, rate limited per IP).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimitByIP(s.authLimiter))
			r.Post("/signup", s.handleSignup)
			r.Post("/token", s.handleIssueToken)
		})

		// Categories (slug-keyed).
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Get("/{slug}", s.handleGetCategory)
			r.Patch("/{slug}", s.handleUpdateCategory)
			r.Delete("/{slug}", s.handleDeleteCategory)
		})

		// Genres (slug-keyed).
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", s.handleListGenres)
			r.Post("/", s.handleCreateGenre)
			r.Get("/{slug}", s.handleGetGenre)
			r.Patch("/{slug}", s.handleUpdateGenre)
			r.Delete("/{slug}", s.handleDeleteGenre)
		})

		// Titles with nested reviews and comments.
		r.Route("/titles", func(r chi.Router) {
			r.Get("/", s.handleListTitles)
			r.Post("/", s.handleCreateTitle)
			r.Get("/{titleID}", s.handleGetTitle)
			r.Patch("/{titleID}", s.handleUpdateTitle)
			r.Delete("/{titleID}", s.handleDeleteTitle)

			r.Route("/{titleID}/reviews", func(r chi.Router) {
				r.Get("/", s.handleListReviews)
				r.Post("/", s.handleCreateReview)
				r.Get("/{reviewID}", s.handleGetReview)
				r.Patch("/{reviewID}", s.handleUpdateReview)
				r.Delete("/{reviewID}", s.handleDeleteReview)

				r.Route("/{reviewID}/comments", func(r chi.Router) {
					r.Get("/", s.handleListComments)
					r.Post("/", s.handleCreateComment)
					r.Get("/{commentID}", s.handleGetComment)
					r.Patch("/{commentID}", s.handleUpdateComment)
					r.Delete("/{commentID}", s.handleDeleteComment)
				})
			})
		})

		// Accounts. /me first so it never collides with the username key.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/me", s.handleGetMe)
			r.Patch("/me", s.handleUpdateMe)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/", s.handleListUsers)
				r.Post("/", s.handleCreateUser)
				r.Get("/{username}", s.handleGetUser)
				r.Patch("/{username}", s.handleUpdateUser)
				r.Delete("/{username}", s.handleDeleteUser)
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
