package v1

import (
	"persona-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, match *handler.PersonaMatchHandler) {
	if r == nil {
		return
	}
	if match == nil {
		return
	}

	match.RegisterRoutes(r)
}
