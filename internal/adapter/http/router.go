package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rocksti/pagafacil/internal/adapter/http/dto"
	"github.com/rocksti/pagafacil/internal/adapter/http/handler"
	"github.com/rocksti/pagafacil/internal/adapter/http/middleware"
	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/infrastructure/auth"
	"github.com/rocksti/pagafacil/internal/infrastructure/metrics"
	"github.com/rocksti/pagafacil/internal/usecase"
)

// RouterConfig holds dependencies for the router. Nil optional fields
// disable the matching middleware.
type RouterConfig struct {
	AccountHandler *handler.AccountHandler
	HealthHandler  *handler.HealthHandler
	Logger         zerolog.Logger

	// Optional
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	JWTManager       *auth.JWTManager
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	r.NotFound(problemHandler(http.StatusNotFound, "NotFoundError"))
	r.MethodNotAllowed(problemHandler(http.StatusMethodNotAllowed, "MethodNotAllowedError"))

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/contas", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			r.Use(middleware.RequireRole(domain.RoleAdmin))
		}
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Post("/cadastrar", cfg.AccountHandler.Register)
		r.Put("/atualizar/{id}", cfg.AccountHandler.Update)
		r.Patch("/alterar-situacao/{id}", cfg.AccountHandler.ChangeStatus)
		r.Get("/buscar-contas-a-pagar", cfg.AccountHandler.SearchPayable)
		r.Get("/buscar/{id}", cfg.AccountHandler.Get)
		r.Get("/valor-total-pago", cfg.AccountHandler.TotalPaid)
		r.Post("/importar-csv", cfg.AccountHandler.Import)
	})

	return r
}

func problemHandler(code int, exception string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(dto.NewProblem(r, code, "", exception, time.Now()))
	}
}
