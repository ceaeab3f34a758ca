package server

import (
	"ai-chat-be/internal/bootstrap"
	"ai-chat-be/internal/config"
	"ai-chat-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Telemetry.ServiceName,
		BodyLimit:             cfg.App.BodyLimitMB * 1024 * 1024,
		ErrorHandler:          serverutils.ErrorHandler(container.Logger),
		DisableStartupMessage: cfg.IsProduction(),
	})

	// Outermost first: tracing and metrics see the final status, the request
	// logger resolves handler errors, recover turns panics into errors.
	app.Use(otelfiber.Middleware())
	if container.Metrics != nil {
		app.Use(container.Metrics.Middleware())
	}
	app.Use(requestid.New())
	app.Use(serverutils.RequestLogger(container.Logger))
	app.Use(recover.New())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("Server", "Server is running", map[string]interface{}{
		"port": s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.CompletionController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)

	if c.Metrics != nil {
		app.Get("/metrics", c.Metrics.Handler())
	}
}
