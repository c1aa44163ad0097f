package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aureusmetals/aureus-backend/api/controllers"
	"github.com/aureusmetals/aureus-backend/api/middleware"
	"github.com/aureusmetals/aureus-backend/internal/audit"
	"github.com/aureusmetals/aureus-backend/internal/catalog"
	"github.com/aureusmetals/aureus-backend/internal/cms"
	"github.com/aureusmetals/aureus-backend/internal/feeds"
	"github.com/aureusmetals/aureus-backend/internal/ingest"
	"github.com/aureusmetals/aureus-backend/internal/orders"
	"github.com/aureusmetals/aureus-backend/internal/tasks"
	"github.com/aureusmetals/aureus-backend/pkg/config"
	"github.com/aureusmetals/aureus-backend/pkg/db"
	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/aureusmetals/aureus-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *redis.Client
	Catalog   catalog.Service
	Orders    orders.Service
	Lifecycle *orders.Lifecycle
	Ingest    *ingest.Service
	Audit     *audit.Service
	Tasks     tasks.Service
	CMS       cms.Service
	Feeds     *feeds.Service
}

// NewRouter mounts the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Post("/", controllers.CreateProduct(deps.Catalog, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Catalog, logg))
			r.Put("/{id}", controllers.UpdateProduct(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteProduct(deps.Catalog, logg))
			r.Get("/{id}/jsonld", controllers.ProductJSONLD(deps.Catalog, cfg.Feeds, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
			r.Post("/{id}/advance", controllers.AdvanceOrder(deps.Lifecycle, deps.Orders, logg))
		})

		r.Post("/inventory/import", controllers.ImportInventory(deps.Ingest, logg))

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", controllers.ListLogs(deps.Audit, logg))
			r.Delete("/", controllers.ClearLogs(deps.Audit, logg))
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", controllers.ListTasks(deps.Tasks, logg))
			r.Post("/", controllers.ScheduleTask(deps.Tasks, logg))
		})

		r.Route("/cms", func(r chi.Router) {
			r.Get("/{key}", controllers.GetSection(deps.CMS, logg))
			r.Put("/{key}", controllers.UpdateSection(deps.CMS, logg))
		})
	})

	r.Get("/feeds/google.xml", controllers.Feed(deps.Feeds, feeds.FeedGoogle, logg))
	r.Get("/feeds/pinterest.xml", controllers.Feed(deps.Feeds, feeds.FeedPinterest, logg))

	return r
}
