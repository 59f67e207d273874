package entities

import (
	"sync"
	"time"

	"food-reader/domain"
	"food-reader/pkg/screen"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Workspace is the set of screens one browser is looking at.
type Workspace struct {
	ID uuid.UUID `json:"id"`

	Ping    *screen.State[domain.PingResult]
	Intake  *screen.State[domain.IntakeResult]
	History *screen.State[[]domain.IntakeRecord]
	Image   *screen.State[domain.ImageAnalysisResult]

	mu      sync.Mutex
	current domain.ScreenName
	Timestamp
}

func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.UpdatedAt = now
}

func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.UpdatedAt
}

// Navigate switches to name and discards the state of every other screen.
func (w *Workspace) Navigate(name domain.ScreenName) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == name {
		return
	}
	w.current = name

	if name != domain.ScreenPing {
		w.Ping.Reset()
	}
	if name != domain.ScreenIntake {
		w.Intake.Reset()
		w.History.Reset()
	}
	if name != domain.ScreenAnalyzeImage {
		w.Image.Reset()
	}
}
