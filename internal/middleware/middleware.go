package middleware

import (
	"food-reader/domain"
	"food-reader/entities"
	"food-reader/internal/api/presenters"
	"food-reader/pkg/backend"
	"food-reader/pkg/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

type (
	Middleware interface {
		CORSMiddleware(allowOrigins string) fiber.Handler
		RecoverMiddleware() fiber.Handler
		RequestIDMiddleware() fiber.Handler
		WorkspaceMiddleware(workspaceService workspace.WorkspaceService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, " + domain.HeaderRequestID,
		ExposeHeaders: domain.HeaderRequestID,
	})
}

func (m *middleware) RecoverMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			log.Errorf("panic serving %s %s [%v]: %v", c.Method(), c.Path(), c.Locals(domain.LocalsRequestID), e)
		},
	})
}

// RequestIDMiddleware keeps a caller supplied X-Request-ID when it is a UUID
// and mints one otherwise. The id travels to the backend through the user
// context.
func (m *middleware) RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(domain.HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(domain.HeaderRequestID, id)
		c.Locals(domain.LocalsRequestID, id)
		c.SetUserContext(backend.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

func (m *middleware) WorkspaceMiddleware(workspaceService workspace.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, created, err := workspaceService.Resolve(c.UserContext(), c.Cookies(domain.CookieWorkspace))
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}
		if created {
			c.Cookie(&fiber.Cookie{
				Name:     domain.CookieWorkspace,
				Value:    ws.ID.String(),
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(domain.LocalsWorkspace, ws)
		return c.Next()
	}
}

// CurrentWorkspace returns the workspace attached by WorkspaceMiddleware.
func CurrentWorkspace(c *fiber.Ctx) *entities.Workspace {
	ws, _ := c.Locals(domain.LocalsWorkspace).(*entities.Workspace)
	return ws
}
