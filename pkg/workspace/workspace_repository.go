package workspace

import (
	"context"
	"sync"
	"time"

	"food-reader/domain"
	"food-reader/entities"

	"github.com/google/uuid"
)

type (
	WorkspaceRepository interface {
		Save(ctx context.Context, ws *entities.Workspace) error
		FindByID(ctx context.Context, id uuid.UUID) (*entities.Workspace, error)
		Delete(ctx context.Context, id uuid.UUID) error
		DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error)
		Count(ctx context.Context) (int, error)
	}

	workspaceRepository struct {
		mu         sync.RWMutex
		workspaces map[uuid.UUID]*entities.Workspace
	}
)

// NewWorkspaceRepository keeps workspaces in process memory only.
func NewWorkspaceRepository() WorkspaceRepository {
	return &workspaceRepository{
		workspaces: make(map[uuid.UUID]*entities.Workspace),
	}
}

func (r *workspaceRepository) Save(ctx context.Context, ws *entities.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workspaces[ws.ID] = ws
	return nil
}

func (r *workspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.workspaces[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	return ws, nil
}

func (r *workspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, id)
	return nil
}

func (r *workspaceRepository) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, ws := range r.workspaces {
		if ws.LastSeen().Before(cutoff) {
			delete(r.workspaces, id)
			removed++
		}
	}
	return removed, nil
}

func (r *workspaceRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces), nil
}
