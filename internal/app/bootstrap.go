package app

import (
	"fmt"
	"strings"

	"persona-match/internal/config"
	"persona-match/internal/delivery/http/handler"
	"persona-match/internal/delivery/http/middleware"
	"persona-match/internal/delivery/http/routes"
	"persona-match/internal/logger"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the fiber application on top of an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, err
	}

	c, err := NewContainer(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}

	cleanup := func() error {
		err := c.Close()
		_ = log.Sync()
		return err
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger.Named("http")).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var db handler.Pinger
	if c.DB != nil {
		db = c.DB
	}

	routes.NewRegistry(
		handler.NewHealthHandler(db),
		handler.NewPersonaMatchHandler(c.PersonaMatch, Weights(c.Config.Match)),
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
