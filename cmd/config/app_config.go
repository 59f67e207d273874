package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"food-reader/internal/api/handlers"
	"food-reader/internal/api/routes"
	"food-reader/internal/middleware"
	"food-reader/internal/utils"
	"food-reader/internal/views"
	"food-reader/pkg/backend"
	"food-reader/pkg/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

const minSweepInterval = time.Second

// NewApp wires the screens to backendService. The workspace sweeper runs
// until ctx is cancelled.
func NewApp(ctx context.Context, cfg utils.Config, backendService backend.BackendService) (*fiber.App, error) {
	utils.InitValidator()
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = utils.DefaultBodyLimit
	}
	app := fiber.New(fiber.Config{
		AppName:               "food-reader",
		BodyLimit:             bodyLimit,
		Views:                 views.NewEngine(),
		DisableStartupMessage: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	output, err := logOutput(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	app.Use(middlewares.RequestIDMiddleware())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${locals:requestid} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     output,
	}))

	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: 1 * time.Second,
		}))
	}

	// Repository
	workspaceRepository := workspace.NewWorkspaceRepository()

	// Service
	workspaceService := workspace.NewWorkspaceService(workspaceRepository, cfg.SessionTTLDuration())
	if ttl := cfg.SessionTTLDuration(); ttl > 0 {
		go workspaceService.RunSweeper(ctx, max(ttl/4, minSweepInterval))
	}

	// Handler
	pingHandler := handlers.NewPingHandler(backendService)
	intakeHandler := handlers.NewIntakeHandler(backendService, cfg.IntakeHistory)
	imageHandler := handlers.NewImageHandler(backendService)
	screenHandler := handlers.NewScreenHandler(validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		PingHandler:      pingHandler,
		IntakeHandler:    intakeHandler,
		ImageHandler:     imageHandler,
		ScreenHandler:    screenHandler,
		Middleware:       middlewares,
		WorkspaceService: workspaceService,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	}
	routesConfig.Setup()
	return app, nil
}

func logOutput(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	return file, nil
}
