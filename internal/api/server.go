// Package api provides the HTTP API server and handlers for the recipe catalog.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/receitaapp/receita-server/internal/config"
	"github.com/receitaapp/receita-server/internal/http/response"
	"github.com/receitaapp/receita-server/internal/metrics"
	"github.com/receitaapp/receita-server/internal/ratelimit"
	"github.com/receitaapp/receita-server/internal/store"
)

// tokenPath is the one endpoint that accepts passwords, and the one that is rate limited.
const tokenPath = "/api/user/token/"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	services     *Services
	mediaRoot    string
	mediaURL     string
	pageSize     int
	metrics      *metrics.Metrics
	tokenLimiter *ratelimit.KeyedRateLimiter
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg *config.Config,
	st store.Store,
	services *Services,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:        st,
		services:     services,
		mediaRoot:    cfg.Media.Root,
		mediaURL:     cfg.Media.URL,
		pageSize:     cfg.Pagination.PageSize,
		metrics:      m,
		tokenLimiter: NewRateLimiter(cfg.Auth.TokenRateLimit, time.Minute, cfg.Auth.TokenRateLimit),
		router:       router,
		logger:       logger,
	}

	s.setupMiddleware(cfg.Server.AllowedOrigins)

	humaConfig := huma.DefaultConfig("Receita API", "1.0.0")
	humaConfig.Info.Description = "Recipes, tags and ingredients, private to each account."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for OpenAPI generation and tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources.
func (s *Server) Close() {
	s.tokenLimiter.Stop()
}

func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(RateLimitMiddleware(s.tokenLimiter, s.logger, tokenPath))
	s.router.Use(authMiddleware(s.services.Identity))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not found.", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method, s.logger)
	})
}

func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerUserRoutes()
	s.registerAttributeRoutes()
	s.registerRecipeRoutes()
	s.registerImageRoutes()

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	if s.mediaRoot != "" {
		prefix := strings.TrimSuffix(s.mediaURL, "/")
		s.router.Handle(prefix+"/*", http.StripPrefix(prefix, mediaHandler(s.mediaRoot)))
	}
}

// mediaHandler serves stored files without directory listings.
func mediaHandler(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", CacheOneWeek)
		fs.ServeHTTP(w, r)
	})
}
