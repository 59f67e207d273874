// Package screen holds the transient view state of a single screen:
// idle -> submitting -> (succeeded | failed) -> idle.
package screen

import (
	"context"
	"sync"
	"time"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

type (
	Options[T any] struct {
		// Alert builds the blocking alert raised on failure. Nil raises none.
		Alert func(err error) string
		// Fallback replaces the displayed result on failure. Nil keeps the
		// previous result.
		Fallback func(err error) T
	}

	Snapshot[T any] struct {
		Phase     Phase     `json:"phase"`
		Loading   bool      `json:"loading"`
		Result    *T        `json:"result,omitempty"`
		Alert     string    `json:"alert,omitempty"`
		SettledAt time.Time `json:"settled_at,omitempty"`
	}

	State[T any] struct {
		opts Options[T]

		mu        sync.Mutex
		inflight  int
		outcome   Phase
		result    *T
		alert     string
		settledAt time.Time
	}
)

func New[T any](opts Options[T]) *State[T] {
	return &State[T]{opts: opts, outcome: PhaseIdle}
}

// Run calls fn and records its outcome. Overlapping calls are not serialized:
// whichever settles last decides what is displayed.
func (s *State[T]) Run(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	v, err := fn(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	s.settledAt = time.Now()
	if err != nil {
		s.outcome = PhaseFailed
		if s.opts.Fallback != nil {
			fb := s.opts.Fallback(err)
			s.result = &fb
		}
		if s.opts.Alert != nil {
			s.alert = s.opts.Alert(err)
		}
		return v, err
	}

	s.outcome = PhaseSucceeded
	s.result = &v
	s.alert = ""
	return v, nil
}

func (s *State[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Peek returns the current state without consuming the alert.
func (s *State[T]) Peek() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Take returns the current state for display. A raised alert is handed out
// once and the screen goes back to idle, keeping the displayed result.
func (s *State[T]) Take() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	s.alert = ""
	s.outcome = PhaseIdle
	return snap
}

// Reset discards everything the screen displays. Calls still in flight keep
// running and record their outcome when they settle.
func (s *State[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome = PhaseIdle
	s.result = nil
	s.alert = ""
	s.settledAt = time.Time{}
}

func (s *State[T]) snapshot() Snapshot[T] {
	snap := Snapshot[T]{
		Phase:     s.outcome,
		Loading:   s.inflight > 0,
		Alert:     s.alert,
		SettledAt: s.settledAt,
	}
	if snap.Loading {
		snap.Phase = PhaseSubmitting
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
