package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-reader/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const maxErrorBody = 512

type (
	BackendService interface {
		Ping(ctx context.Context) (domain.PingResult, error)
		CalculateIntake(ctx context.Context, req domain.IntakeRequest) (domain.IntakeResult, error)
		ListIntakes(ctx context.Context) ([]domain.IntakeRecord, error)
		AnalyzeImage(ctx context.Context, req domain.AnalyzeImageRequest) (domain.ImageAnalysisResult, error)
	}

	Options struct {
		BaseURL   string
		APIPrefix string
		// Timeout of zero leaves requests unbounded.
		Timeout time.Duration
	}

	backendService struct {
		baseURL string
		prefix  string
		timeout time.Duration
	}
)

func NewBackendService(opts Options) BackendService {
	return &backendService{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		prefix:  normalizePrefix(opts.APIPrefix),
		timeout: opts.Timeout,
	}
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

func (s *backendService) endpoint(path string) string {
	return s.baseURL + s.prefix + path
}

func (s *backendService) Ping(ctx context.Context) (domain.PingResult, error) {
	var res domain.PingResult
	a := s.prepare(ctx, fiber.Get(s.endpoint("/ping")))
	if err := s.send(a, &res); err != nil {
		return domain.PingResult{}, fmt.Errorf("ping: %w", err)
	}
	return res, nil
}

func (s *backendService) CalculateIntake(ctx context.Context, req domain.IntakeRequest) (domain.IntakeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.IntakeResult{}, fmt.Errorf("calculate intake: encode request: %w", err)
	}

	var res domain.IntakeResult
	a := s.prepare(ctx, fiber.Post(s.endpoint("/calculate-intake")))
	a.ContentType(fiber.MIMEApplicationJSON).Body(body)
	if err := s.send(a, &res); err != nil {
		return domain.IntakeResult{}, fmt.Errorf("calculate intake: %w", err)
	}
	return res, nil
}

func (s *backendService) ListIntakes(ctx context.Context) ([]domain.IntakeRecord, error) {
	var raw []json.RawMessage
	a := s.prepare(ctx, fiber.Get(s.endpoint("/calculate-intake")))
	if err := s.send(a, &raw); err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}

	records := make([]domain.IntakeRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, domain.IntakeRecord(r))
	}
	return records, nil
}

// AnalyzeImage uploads the image as the multipart "file" field. An empty
// request still produces a (zero-length) file part.
func (s *backendService) AnalyzeImage(ctx context.Context, req domain.AnalyzeImageRequest) (domain.ImageAnalysisResult, error) {
	content := req.Content
	if content == nil {
		content = []byte{}
	}

	var res domain.ImageAnalysisResult
	a := s.prepare(ctx, fiber.Post(s.endpoint("/analyze-image")))
	a.FileData(&fiber.FormFile{
		Fieldname: domain.FieldImageFile,
		Name:      req.Filename,
		Content:   content,
	}).MultipartForm(nil)
	if err := s.send(a, &res); err != nil {
		return domain.ImageAnalysisResult{}, fmt.Errorf("analyze image: %w", err)
	}
	return res, nil
}

func (s *backendService) prepare(ctx context.Context, a *fiber.Agent) *fiber.Agent {
	if id := RequestIDFromContext(ctx); id != "" {
		a.Set(domain.HeaderRequestID, id)
	}
	if s.timeout > 0 {
		a.Timeout(s.timeout)
	}
	return a
}

func (s *backendService) send(a *fiber.Agent, out any) error {
	uri := a.Request().URI().String()
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, errors.Join(errs...))
	}
	log.Debugf("backend %s -> %d (%d bytes)", uri, code, len(body))

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return &domain.BackendError{StatusCode: code, Body: truncate(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
