// Package views holds the html templates of the three screens.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html layouts/*.html
var files embed.FS

// NewEngine returns the template engine used by the fiber app.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
