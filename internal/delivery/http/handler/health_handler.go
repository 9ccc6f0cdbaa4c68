package handler

import (
	"context"
	"time"

	"persona-match/internal/delivery/http/dto"
	"persona-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler reports database reachability when db is non-nil.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	out := dto.HealthResponse{Database: "skipped", Time: time.Now().UTC()}
	if h.db == nil {
		return response.OK(c, out)
	}

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		out.Database = "down"
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, out)
	}
	out.Database = "up"
	return response.OK(c, out)
}
