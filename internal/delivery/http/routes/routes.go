package routes

import (
	"persona-match/internal/delivery/http/handler"
	"persona-match/internal/delivery/http/middleware"
	v1 "persona-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	match  *handler.PersonaMatchHandler
}

func NewRegistry(health *handler.HealthHandler, match *handler.PersonaMatchHandler) *Registry {
	return &Registry{health: health, match: match}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1", middleware.NewIdentityMiddleware().Middleware()), r.match)
}
