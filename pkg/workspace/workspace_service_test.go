package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-reader/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(ttl time.Duration, now *time.Time) (*workspaceService, WorkspaceRepository) {
	repo := NewWorkspaceRepository()
	svc := NewWorkspaceService(repo, ttl).(*workspaceService)
	svc.now = func() time.Time { return *now }
	return svc, repo
}

func TestResolveCreatesAndReuses(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, repo := newTestService(30*time.Minute, &now)
	ctx := context.Background()

	ws, created, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	assert.True(t, created)

	now = now.Add(10 * time.Minute)
	again, created, err := svc.Resolve(ctx, ws.ID.String())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, ws, again)
	assert.Equal(t, now, again.LastSeen())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestResolveMalformedOrUnknownID(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(time.Hour, &now)
	ctx := context.Background()

	_, created, err := svc.Resolve(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = svc.Resolve(ctx, "9f1c1f5e-8a7c-4d7e-9a55-1a2b3c4d5e6f")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestResolveExpiredWorkspaceIsReplaced(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, repo := newTestService(30*time.Minute, &now)
	ctx := context.Background()

	old, _, err := svc.Resolve(ctx, "")
	require.NoError(t, err)

	now = now.Add(31 * time.Minute)
	fresh, created, err := svc.Resolve(ctx, old.ID.String())
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, old.ID, fresh.ID)

	_, err = repo.FindByID(ctx, old.ID)
	assert.True(t, errors.Is(err, domain.ErrWorkspaceNotFound))
}

func TestSweepRemovesIdleWorkspaces(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, repo := newTestService(30*time.Minute, &now)
	ctx := context.Background()

	idle, _, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	now = now.Add(20 * time.Minute)
	active, _, err := svc.Resolve(ctx, "")
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	removed, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.FindByID(ctx, idle.ID)
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	_, err = repo.FindByID(ctx, active.ID)
	assert.NoError(t, err)
}

func TestRunSweeperStopsWithContext(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(time.Minute, &now)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestNavigateDiscardsOtherScreens(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(time.Hour, &now)
	ws, _, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)

	ws.Navigate(domain.ScreenPing)
	_, _ = ws.Ping.Run(context.Background(), func(context.Context) (domain.PingResult, error) {
		return domain.PingResult{Message: "pong"}, nil
	})
	ws.Navigate(domain.ScreenPing)
	require.NotNil(t, ws.Ping.Peek().Result)

	ws.Navigate(domain.ScreenIntake)
	assert.Nil(t, ws.Ping.Peek().Result)
}

func TestScreenFailureMessages(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(time.Hour, &now)
	ws, _, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	boom := errors.New("connection refused")

	_, _ = ws.Ping.Run(context.Background(), func(context.Context) (domain.PingResult, error) {
		return domain.PingResult{}, boom
	})
	ping := ws.Ping.Take()
	require.NotNil(t, ping.Result)
	assert.Equal(t, "Error", ping.Result.Message)
	assert.Empty(t, ping.Alert)

	_, _ = ws.Intake.Run(context.Background(), func(context.Context) (domain.IntakeResult, error) {
		return domain.IntakeResult{}, boom
	})
	assert.Equal(t, "Error", ws.Intake.Take().Alert)

	_, _ = ws.Image.Run(context.Background(), func(context.Context) (domain.ImageAnalysisResult, error) {
		return domain.ImageAnalysisResult{}, boom
	})
	assert.Equal(t, "Error analyzing image. Catch error: connection refused", ws.Image.Take().Alert)
}
