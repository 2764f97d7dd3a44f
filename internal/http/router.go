package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apierrors "github.com/pribylovaa/articles-service/internal/errors"
	"github.com/pribylovaa/articles-service/internal/http/handlers"
	"github.com/pribylovaa/articles-service/internal/http/middleware"
	"github.com/pribylovaa/articles-service/internal/service"
)

// Options - параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	BasePath       string   // например, "/api"; если пустой - роуты регистрируются на корне.
	AllowedOrigins []string // пусто - любой origin.
	// Registry - реестр метрик для /metrics; nil - новый пустой реестр.
	Registry *prometheus.Registry
	// Pinger и Ready обслуживают /healthz; оба необязательны.
	Pinger handlers.Pinger
	Ready  *atomic.Bool
}

// NewRouter собирает chi-роутер с мидлварами, CORS и роутами.
func NewRouter(svc *service.Service, opts Options) chi.Router {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),                    // безопасно ловим паники
		middleware.RequestID(),                  // X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),         // request-scoped логгер в контексте + запись "http"
		middleware.NewMetrics(reg).Middleware(), // счётчики и латентность по шаблону маршрута
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderRequestID},
			ExposedHeaders: []string{middleware.HeaderRequestID},
			MaxAge:         300,
		}),
		middleware.Timeout(opts.Timeout), // общий дедлайн запроса; <=0 - без дедлайна
	)

	root.NotFound(apierrors.Handle(func(http.ResponseWriter, *http.Request) error {
		return apierrors.ErrRouteNotFound
	}))
	root.MethodNotAllowed(apierrors.Handle(func(http.ResponseWriter, *http.Request) error {
		return apierrors.ErrMethodNotAllowed
	}))

	h := handlers.New(svc, opts.Pinger, opts.Ready)

	root.Get("/livez", h.Livez)
	root.Get("/healthz", h.Healthz)
	root.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}))

	if opts.BasePath != "" {
		root.Route(opts.BasePath, func(r chi.Router) {
			registerRoutes(r, h)
		})
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes - единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/health", h.Health)

	r.Route("/articles", func(r chi.Router) {
		r.Get("/", apierrors.Handle(h.ListArticles))
		r.With(middleware.ValidateArticle()).Post("/", apierrors.Handle(h.CreateArticle))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", apierrors.Handle(h.GetArticle))
			r.With(middleware.ValidateArticle()).Put("/", apierrors.Handle(h.UpdateArticle))
			r.Delete("/", apierrors.Handle(h.DeleteArticle))
		})
	})
}
