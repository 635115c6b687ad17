package handlers

import (
	"SessionKeeper/internal/config"
	"SessionKeeper/internal/middleware"
	"SessionKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)

	// User routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.WithRateLimit(config.LoginRatePerMin, config.TrustProxy))
		r.Post("/api/user/register", userHandler.Register)
		r.Post("/api/user/login", userHandler.Login)
	})
	r.Get("/api/user/info", userHandler.Info)
	r.Post("/api/user/test", userHandler.Status)

	return &Handler{Router: r}
}
