package workspace

import (
	"context"
	"errors"
	"time"

	"food-reader/domain"
	"food-reader/entities"
	"food-reader/pkg/screen"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	WorkspaceService interface {
		// Resolve returns the workspace for id, or a fresh one when id is
		// empty, malformed, unknown or expired. created reports the latter.
		Resolve(ctx context.Context, id string) (ws *entities.Workspace, created bool, err error)
		Sweep(ctx context.Context) (int, error)
		RunSweeper(ctx context.Context, every time.Duration)
	}

	workspaceService struct {
		workspaceRepository WorkspaceRepository
		ttl                 time.Duration
		now                 func() time.Time
	}
)

func NewWorkspaceService(workspaceRepository WorkspaceRepository, ttl time.Duration) WorkspaceService {
	return &workspaceService{
		workspaceRepository: workspaceRepository,
		ttl:                 ttl,
		now:                 time.Now,
	}
}

func (s *workspaceService) Resolve(ctx context.Context, id string) (*entities.Workspace, bool, error) {
	now := s.now()

	if parsed, err := uuid.Parse(id); err == nil {
		ws, err := s.workspaceRepository.FindByID(ctx, parsed)
		switch {
		case err == nil && !s.expired(ws, now):
			ws.Touch(now)
			return ws, false, nil
		case err == nil:
			_ = s.workspaceRepository.Delete(ctx, parsed)
		case !errors.Is(err, domain.ErrWorkspaceNotFound):
			return nil, false, err
		}
	}

	ws := newWorkspace(uuid.New(), now)
	if err := s.workspaceRepository.Save(ctx, ws); err != nil {
		return nil, false, err
	}
	return ws, true, nil
}

func (s *workspaceService) expired(ws *entities.Workspace, now time.Time) bool {
	return s.ttl > 0 && now.Sub(ws.LastSeen()) > s.ttl
}

func (s *workspaceService) Sweep(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.workspaceRepository.DeleteIdleSince(ctx, s.now().Add(-s.ttl))
}

func (s *workspaceService) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Sweep(ctx)
			if err != nil {
				log.Errorf("workspace sweep: %v", err)
				continue
			}
			if removed > 0 {
				active, _ := s.workspaceRepository.Count(ctx)
				log.Debugf("workspace sweep removed %d idle workspaces, %d active", removed, active)
			}
		}
	}
}

func newWorkspace(id uuid.UUID, now time.Time) *entities.Workspace {
	ws := &entities.Workspace{
		ID: id,
		Ping: screen.New(screen.Options[domain.PingResult]{
			Fallback: func(error) domain.PingResult {
				return domain.PingResult{Message: domain.MessagePingFailed}
			},
		}),
		Intake: screen.New(screen.Options[domain.IntakeResult]{
			Alert: func(error) string { return domain.MessageFailedCalculateIntake },
		}),
		History: screen.New(screen.Options[[]domain.IntakeRecord]{}),
		Image: screen.New(screen.Options[domain.ImageAnalysisResult]{
			Alert: func(err error) string { return domain.MessageFailedAnalyzeImage + err.Error() },
		}),
	}
	ws.CreatedAt = now
	ws.UpdatedAt = now
	return ws
}
