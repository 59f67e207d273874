package presenters

import (
	"food-reader/domain"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

type Page struct {
	Title  string
	Screen domain.ScreenName
	Data   any
}

// RenderPage renders a screen inside the shared layout.
func RenderPage(c *fiber.Ctx, view string, page Page) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Render(view, page, layout)
}

// SeeOther finishes a form POST so a browser refresh does not resubmit it.
func SeeOther(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}
