package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jemygraw/deepresearch/log"
	"github.com/jemygraw/deepresearch/store"
	"github.com/smallnest/langgraphgo/graph"
)

var (
	// ErrNotStarted is returned by Resume and Approve before Start.
	ErrNotStarted = errors.New("workflow: session not started")
	// ErrNoPlan is returned when planning produced no sections.
	ErrNoPlan = errors.New("workflow: no report plan")
)

// Engine drives one research thread.
type Engine interface {
	// Start runs the graph for topic until the plan review pause.
	Start(ctx context.Context, topic string, emit func(Event)) error
	// Resume sends feedback on the plan, which regenerates it and pauses again.
	Resume(ctx context.Context, feedback string, emit func(Event)) error
	// Approve accepts the plan and runs the graph to the final report.
	Approve(ctx context.Context, emit func(Event)) error
	// ThreadID identifies the thread.
	ThreadID() string
	// State returns a copy of the current state.
	State() State
}

// Session is the Engine backed by the compiled research graph. It keeps the state between
// invocations, the way a checkpointer keeps a thread.
type Session struct {
	runnable *graph.StateRunnable[*State]
	settings Settings
	history  store.SnapshotStore
	logger   log.Logger

	mu      sync.Mutex
	state   *State
	version int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithThreadID sets the thread ID. By default a random UUID is used.
func WithThreadID(id string) SessionOption {
	return func(s *Session) {
		s.settings.ThreadID = id
	}
}

// WithHistory mirrors the state to h after every round-trip.
func WithHistory(h store.SnapshotStore) SessionOption {
	return func(s *Session) {
		s.history = h
	}
}

// WithLogger sets the session logger.
func WithLogger(l log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session over a compiled research graph.
func NewSession(runnable *graph.StateRunnable[*State], settings Settings, opts ...SessionOption) *Session {
	s := &Session{
		runnable: runnable,
		settings: settings,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.settings.ThreadID == "" {
		s.settings.ThreadID = uuid.NewString()
	}
	s.logger = log.OrDefault(s.logger)
	return s
}

// ThreadID identifies the thread.
func (s *Session) ThreadID() string {
	return s.settings.ThreadID
}

// State returns a copy of the current state, or the zero State before Start.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return State{}
	}
	return s.state.Clone()
}

// Start runs planning for topic and stops at the review pause.
func (s *Session) Start(ctx context.Context, topic string, onEvent func(Event)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = &State{Topic: topic, Settings: s.settings}
	return s.run(ctx, nil, onEvent, store.StagePlan)
}

// Resume sends feedback to the review pause.
func (s *Session) Resume(ctx context.Context, feedback string, onEvent func(Event)) error {
	return s.resume(ctx, feedback, onEvent, store.StageFeedback)
}

// Approve accepts the plan and writes the report.
func (s *Session) Approve(ctx context.Context, onEvent func(Event)) error {
	return s.resume(ctx, true, onEvent, store.StageReport)
}

func (s *Session) resume(ctx context.Context, value any, onEvent func(Event), stage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return ErrNotStarted
	}
	if len(s.state.Sections) == 0 {
		return ErrNoPlan
	}
	s.state.ResumeApplied = false
	return s.run(ctx, &graph.Config{
		ResumeFrom:  []string{NodeHumanFeedback},
		ResumeValue: value,
	}, onEvent, stage)
}

func (s *Session) run(ctx context.Context, cfg *graph.Config, onEvent func(Event), stage string) error {
	ctx = withEmitter(ctx, onEvent)

	final, err := s.runnable.InvokeWithConfig(ctx, s.state, cfg)
	var interrupt *graph.GraphInterrupt
	if err != nil && !errors.As(err, &interrupt) {
		return fmt.Errorf("research workflow: %w", err)
	}
	// The state reached before a pause is returned along with the interrupt.
	if final != nil {
		s.state = final
	}
	if interrupt != nil {
		s.logger.Debug("thread %s paused at %s", s.settings.ThreadID, interrupt.Node)
		emit(ctx, InterruptEvent{Value: interrupt.InterruptValue})
	}

	s.saveSnapshot(ctx, stage, cfg)
	return nil
}

// saveSnapshot mirrors the state to the history store. Feedback sent with a resume is kept
// in the metadata, since planning clears it from the state. Failures are logged only.
func (s *Session) saveSnapshot(ctx context.Context, stage string, cfg *graph.Config) {
	if s.history == nil {
		return
	}
	s.version++
	snap := store.New(s.settings.ThreadID, stage, s.state.Clone(), s.version)
	snap.Metadata["topic"] = s.state.Topic
	if cfg != nil {
		if feedback, ok := cfg.ResumeValue.(string); ok {
			snap.Metadata["feedback"] = strings.TrimSpace(feedback)
		}
	}
	if err := s.history.Save(ctx, snap); err != nil {
		s.logger.Warn("save %s snapshot for thread %s: %v", stage, s.settings.ThreadID, err)
	}
}
