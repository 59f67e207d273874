package handlers

import (
	"context"
	"io"

	"food-reader/domain"
	"food-reader/internal/api/presenters"
	"food-reader/internal/middleware"
	"food-reader/pkg/backend"
	"food-reader/pkg/screen"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	ImageHandler interface {
		ShowAnalyzeImage(c *fiber.Ctx) error
		AnalyzeImage(c *fiber.Ctx) error
	}

	imageHandler struct {
		backendService backend.BackendService
	}

	ImagePage struct {
		State screen.Snapshot[domain.ImageAnalysisResult]
	}
)

func NewImageHandler(backendService backend.BackendService) ImageHandler {
	return &imageHandler{
		backendService: backendService,
	}
}

func (h *imageHandler) ShowAnalyzeImage(c *fiber.Ctx) error {
	ws := middleware.CurrentWorkspace(c)
	ws.Navigate(domain.ScreenAnalyzeImage)

	return presenters.RenderPage(c, "analyze_image", presenters.Page{
		Title:  "Analyze Image",
		Screen: domain.ScreenAnalyzeImage,
		Data:   ImagePage{State: ws.Image.Take()},
	})
}

// AnalyzeImage uploads whatever was selected. With no file selected the
// backend still receives an empty file part.
func (h *imageHandler) AnalyzeImage(c *fiber.Ctx) error {
	ws := middleware.CurrentWorkspace(c)
	ws.Navigate(domain.ScreenAnalyzeImage)
	requestID := c.Locals(domain.LocalsRequestID)

	req, err := readUpload(c)
	if err != nil {
		log.Warnf("[%v] %s: %v", requestID, domain.MessageFailedBodyRequest, err)
	}

	_, err = ws.Image.Run(c.UserContext(), func(ctx context.Context) (domain.ImageAnalysisResult, error) {
		return h.backendService.AnalyzeImage(ctx, req)
	})
	if err != nil {
		log.Errorf("[%v] error analyzing image: %v", requestID, err)
	}

	return presenters.SeeOther(c, "/analyze-image")
}

func readUpload(c *fiber.Ctx) (domain.AnalyzeImageRequest, error) {
	fh, err := c.FormFile(domain.FieldImageFile)
	if err != nil {
		// no file selected
		return domain.AnalyzeImageRequest{}, nil
	}

	file, err := fh.Open()
	if err != nil {
		return domain.AnalyzeImageRequest{Filename: fh.Filename}, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return domain.AnalyzeImageRequest{Filename: fh.Filename}, err
	}
	return domain.AnalyzeImageRequest{Filename: fh.Filename, Content: content}, nil
}
