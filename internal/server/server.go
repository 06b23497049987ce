package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/rickgao/marketdata/internal/contract"
	"github.com/rickgao/marketdata/internal/metrics"
	"github.com/rickgao/marketdata/internal/model"
	"github.com/rickgao/marketdata/internal/version"
)

// Pinger checks a dependency, e.g. *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Resolver resolves and loads option contracts, e.g. *contract.Service.
type Resolver interface {
	FindSymbol(ctx context.Context, req contract.Request) (string, error)
	Series(ctx context.Context, symbol string) ([]model.OptionQuote, error)
}

// CycleCounter reports collector progress, e.g. *collector.Collector.
type CycleCounter interface {
	Cycles() int64
}

// CacheLister lists named caches, e.g. *cache.Manager.
type CacheLister interface {
	Names() []string
}

// Deps are the handlers' collaborators. Nil fields disable their checks or routes.
type Deps struct {
	DB        Pinger
	Resolver  Resolver
	Collector CycleCounter
	Caches    CacheLister
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	MetricsPath string // Default "/metrics"
}

// NewRouter builds the HTTP handler.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.MetricsPath == "" {
		d.MetricsPath = "/metrics"
	}
	h := &handlers{deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Get("/version", h.version)
	r.Method(http.MethodGet, d.MetricsPath, d.Metrics.Handler())

	if d.Resolver != nil {
		r.Route("/v1/contracts", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/decode/{symbol}", h.decode)
			r.Get("/resolve", h.resolve)
			r.Get("/{symbol}/series", h.series)
		})
	}

	return r
}

type handlers struct {
	deps Deps
}

type healthResponse struct {
	Status     string         `json:"status"`
	Components map[string]any `json:"components"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := healthResponse{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	if h.deps.DB != nil {
		if err := h.deps.DB.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}
	}

	if h.deps.Collector != nil {
		health.Components["collector"] = map[string]int64{
			"cycles": h.deps.Collector.Cycles(),
		}
	}

	if h.deps.Caches != nil {
		health.Components["caches"] = h.deps.Caches.Names()
	}

	if health.Status == "unhealthy" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, health)
}

func (h *handlers) version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"version":    version.Version,
		"commit":     version.Commit,
		"build_time": version.BuildTime,
	})
}
