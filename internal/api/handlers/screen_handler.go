package handlers

import (
	"food-reader/domain"
	"food-reader/internal/api/presenters"
	"food-reader/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ScreenHandler interface {
		GetScreenState(c *fiber.Ctx) error
		Health(c *fiber.Ctx) error
	}

	screenHandler struct {
		validator *validator.Validate
	}
)

func NewScreenHandler(validator *validator.Validate) ScreenHandler {
	return &screenHandler{
		validator: validator,
	}
}

// GetScreenState reports a screen's state without consuming its alert; the
// pages poll it while a request is in flight.
func (h *screenHandler) GetScreenState(c *fiber.Ctx) error {
	req := new(domain.ScreenStateRequest)
	if err := c.ParamsParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScreenState, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScreenState, domain.ErrUnknownScreen)
	}

	ws := middleware.CurrentWorkspace(c)
	var state any
	switch domain.ScreenName(req.Name) {
	case domain.ScreenPing:
		state = ws.Ping.Peek()
	case domain.ScreenIntake:
		state = ws.Intake.Peek()
	case domain.ScreenAnalyzeImage:
		state = ws.Image.Peek()
	}

	return presenters.SuccessResponse(c, state, fiber.StatusOK, domain.MessageSuccessGetScreenState)
}

func (h *screenHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": domain.MessageSuccessHealth})
}
