package handlers

import (
	"context"

	"food-reader/domain"
	"food-reader/internal/api/presenters"
	"food-reader/internal/middleware"
	"food-reader/pkg/backend"
	"food-reader/pkg/screen"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	PingHandler interface {
		ShowPing(c *fiber.Ctx) error
		Ping(c *fiber.Ctx) error
	}

	pingHandler struct {
		backendService backend.BackendService
	}

	PingPage struct {
		State screen.Snapshot[domain.PingResult]
	}
)

func NewPingHandler(backendService backend.BackendService) PingHandler {
	return &pingHandler{
		backendService: backendService,
	}
}

func (h *pingHandler) ShowPing(c *fiber.Ctx) error {
	ws := middleware.CurrentWorkspace(c)
	ws.Navigate(domain.ScreenPing)

	return presenters.RenderPage(c, "ping", presenters.Page{
		Title:  "Ping Endpoint",
		Screen: domain.ScreenPing,
		Data:   PingPage{State: ws.Ping.Take()},
	})
}

func (h *pingHandler) Ping(c *fiber.Ctx) error {
	ws := middleware.CurrentWorkspace(c)
	ws.Navigate(domain.ScreenPing)

	_, err := ws.Ping.Run(c.UserContext(), func(ctx context.Context) (domain.PingResult, error) {
		return h.backendService.Ping(ctx)
	})
	if err != nil {
		log.Warnf("[%v] ping failed: %v", c.Locals(domain.LocalsRequestID), err)
	}

	return presenters.SeeOther(c, "/")
}
