package wire

import (
	"net/http"

	"lawn-booking/internal/adaptor"
	"lawn-booking/internal/data/repository"
	"lawn-booking/internal/usecase"
	"lawn-booking/pkg/cache"
	"lawn-booking/pkg/middleware"
	"lawn-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and the router on top of the given
// repositories and cache.
func Wiring(repo *repository.Repository, cache cache.Cache, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, cache, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, config, logger),
	}
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, r, "OK", map[string]string{"app": config.App.Name})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(config.RateLimit))

		wireBooking(r, handler.Booking, config, logger)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, r, "Route not found")
	})

	return r
}
