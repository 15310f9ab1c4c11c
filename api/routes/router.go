package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meditrack/meditrack-api/api/controllers"
	"github.com/meditrack/meditrack-api/api/middleware"
	"github.com/meditrack/meditrack-api/internal/alerts"
	"github.com/meditrack/meditrack-api/internal/dispatch"
	"github.com/meditrack/meditrack-api/internal/hospitals"
	"github.com/meditrack/meditrack-api/internal/inventory"
	"github.com/meditrack/meditrack-api/internal/recommend"
	"github.com/meditrack/meditrack-api/internal/staff"
	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/enums"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pingers map[string]controllers.Pinger,
	httpMetrics *metrics.HTTP,
	metricsHandler http.Handler,
	staffResolver staff.Resolver,
	hospitalService hospitals.Service,
	inventoryService inventory.Service,
	alertService alerts.Service,
	dispatchResolver dispatch.Resolver,
	recommendService recommend.Service,
	realtimeServer http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(middleware.AllowedOrigins(cfg.App.FrontendURL)),
	)

	r.Get("/", controllers.Root())

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	if realtimeServer != nil {
		r.Method(http.MethodGet, "/ws", realtimeServer)
	}

	requireStaff := middleware.Auth(staffResolver, logg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/hospitals", func(r chi.Router) {
			r.Get("/", controllers.HospitalsList(hospitalService, logg))
			r.Get("/{id}", controllers.HospitalGet(hospitalService, logg))
		})

		r.Route("/beds", func(r chi.Router) {
			r.Get("/", controllers.BedsList(inventoryService, logg))
			r.With(requireStaff).Patch("/{id}", controllers.BedUpdate(inventoryService, logg))
		})

		r.Route("/blood", func(r chi.Router) {
			r.Get("/", controllers.BloodList(inventoryService, logg))
			r.With(requireStaff).Patch("/{id}", controllers.BloodUpdate(inventoryService, logg))
		})

		r.Post("/ambulance/nearest", controllers.AmbulanceNearest(dispatchResolver, logg))

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.AlertsList(alertService, logg))
			r.With(
				requireStaff,
				middleware.RequireRole(enums.StaffRoleAdmin, logg),
			).Post("/{id}/resolve", controllers.AlertResolve(alertService, logg))
		})

		r.Post("/ai/recommend", controllers.AIRecommend(recommendService, logg))
	})

	return r
}
