package routes

import (
	"food-reader/internal/api/handlers"
	"food-reader/internal/middleware"
	"food-reader/pkg/workspace"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	PingHandler      handlers.PingHandler
	IntakeHandler    handlers.IntakeHandler
	ImageHandler     handlers.ImageHandler
	ScreenHandler    handlers.ScreenHandler
	Middleware       middleware.Middleware
	WorkspaceService workspace.WorkspaceService
	CORSAllowOrigins string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.RecoverMiddleware())
	c.App.Use(c.Middleware.CORSMiddleware(c.CORSAllowOrigins))
	c.App.Get("/healthz", c.ScreenHandler.Health)

	screens := c.App.Group("/", c.Middleware.WorkspaceMiddleware(c.WorkspaceService))
	c.Ping(screens)
	c.Intake(screens)
	c.AnalyzeImage(screens)
	c.ScreenState(screens)
}

func (c *Config) Ping(r fiber.Router) {
	r.Get("/", c.PingHandler.ShowPing)
	r.Post("/ping", c.PingHandler.Ping)
}

func (c *Config) Intake(r fiber.Router) {
	r.Get("/calculate-intake", c.IntakeHandler.ShowIntake)
	r.Post("/calculate-intake", c.IntakeHandler.CalculateIntake)
}

func (c *Config) AnalyzeImage(r fiber.Router) {
	r.Get("/analyze-image", c.ImageHandler.ShowAnalyzeImage)
	r.Post("/analyze-image", c.ImageHandler.AnalyzeImage)
}

func (c *Config) ScreenState(r fiber.Router) {
	r.Get("/screens/:name/state", c.ScreenHandler.GetScreenState)
}
