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
	IntakeHandler interface {
		ShowIntake(c *fiber.Ctx) error
		CalculateIntake(c *fiber.Ctx) error
	}

	intakeHandler struct {
		backendService backend.BackendService
		historyEnabled bool
	}

	IntakePage struct {
		State          screen.Snapshot[domain.IntakeResult]
		HistoryEnabled bool
		History        screen.Snapshot[[]domain.IntakeRecord]
		Genders        []domain.Gender
		ActivityLevels []domain.ActivityLevel
	}
)

func NewIntakeHandler(backendService backend.BackendService, historyEnabled bool) IntakeHandler {
	return &intakeHandler{
		backendService: backendService,
		historyEnabled: historyEnabled,
	}
}

func (h *intakeHandler) ShowIntake(c *fiber.Ctx) error {
	ws := middleware.CurrentWorkspace(c)
	ws.Navigate(domain.ScreenIntake)

	page := IntakePage{
		HistoryEnabled: h.historyEnabled,
		Genders:        []domain.Gender{domain.GenderMale, domain.GenderFemale},
		ActivityLevels: []domain.ActivityLevel{domain.ActivityLow, domain.ActivityMedium, domain.ActivityHigh},
	}

	if h.historyEnabled {
		_, err := ws.History.Run(c.UserContext(), func(ctx context.Context) ([]domain.IntakeRecord, error) {
			return h.backendService.ListIntakes(ctx)
		})
		if err != nil {
			log.Errorf("[%v] %s: %v", c.Locals(domain.LocalsRequestID), domain.MessageFailedGetIntakeHistory, err)
		}
		page.History = ws.History.Take()
	}
	page.State = ws.Intake.Take()

	return presenters.RenderPage(c, "intake", presenters.Page{
		Title:  "Calculate Intake",
		Screen: domain.ScreenIntake,
		Data:   page,
	})
}

// CalculateIntake forwards the form as typed. Nothing is range checked or
// required here; the backend owns validation.
func (h *intakeHandler) CalculateIntake(c *fiber.Ctx) error {
	ws := middleware.CurrentWorkspace(c)
	ws.Navigate(domain.ScreenIntake)

	req := new(domain.IntakeRequest)
	if err := c.BodyParser(req); err != nil {
		log.Warnf("[%v] %s: %v", c.Locals(domain.LocalsRequestID), domain.MessageFailedBodyRequest, err)
	}

	_, err := ws.Intake.Run(c.UserContext(), func(ctx context.Context) (domain.IntakeResult, error) {
		return h.backendService.CalculateIntake(ctx, *req)
	})
	if err != nil {
		log.Warnf("[%v] calculate intake failed: %v", c.Locals(domain.LocalsRequestID), err)
	}

	return presenters.SeeOther(c, "/calculate-intake")
}
