package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fusionwear/storefront/api/controllers"
	"github.com/fusionwear/storefront/api/middleware"
	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/pkg/config"
	"github.com/fusionwear/storefront/pkg/logger"
	"github.com/fusionwear/storefront/pkg/metrics"
	"github.com/fusionwear/storefront/pkg/redis"
)

// Deps collects what the router wires into handlers. Catalog may be nil when
// the startup load failed; Redis is nil when not configured.
type Deps struct {
	Catalog  *catalog.Catalog
	Chat     controllers.ChatReplier
	Redis    *redis.Client
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, readinessDeps(deps)))

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.HealthStatus())

		r.Group(func(r chi.Router) {
			policy := middleware.NewRateLimitPolicy("chat", cfg.RateLimit.ChatWindow, cfg.RateLimit.ChatIPLimit)
			if deps.Redis != nil {
				r.Use(middleware.RateLimit(policy, deps.Redis, logg))
			}
			r.Post("/chat", controllers.ChatReply(deps.Chat, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/collections", controllers.CatalogCollections(deps.Catalog, logg))
			r.Get("/products", controllers.CatalogProducts(deps.Catalog, logg))
			r.Get("/products/{id}", controllers.CatalogProduct(deps.Catalog, logg))
		})
	})

	return r
}

func readinessDeps(deps Deps) map[string]controllers.Pinger {
	out := map[string]controllers.Pinger{}
	if deps.Redis != nil {
		out["redis"] = deps.Redis
	}
	return out
}
