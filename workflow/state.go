package workflow

import (
	"context"
	"sync"
)

// Section is one entry of a report plan.
type Section struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Research    bool   `json:"research"`
	Content     string `json:"content,omitempty"`
}

// Settings is the configuration bundle sent with the initial payload.
type Settings struct {
	ThreadID        string `json:"thread_id"`
	SearchAPI       string `json:"search_api"`
	PlannerProvider string `json:"planner_provider"`
	PlannerModel    string `json:"planner_model"`
	WriterProvider  string `json:"writer_provider"`
	WriterModel     string `json:"writer_model"`
	MaxSearchDepth  int    `json:"max_search_depth"`
	NumberOfQueries int    `json:"number_of_queries"`
}

// State is the research graph state. Nodes receive and return the same pointer.
type State struct {
	Topic       string    `json:"topic"`
	Settings    Settings  `json:"settings"`
	Sections    []Section `json:"sections"`
	Feedback    string    `json:"feedback,omitempty"`
	Approved    bool      `json:"approved"`
	FinalReport string    `json:"final_report,omitempty"`

	// ResumeApplied is set once human_feedback has consumed the resume value of the current
	// invocation, so a second visit in the same run pauses again.
	ResumeApplied bool `json:"-"`
}

// Clone returns a copy that shares nothing with s.
func (s *State) Clone() State {
	c := *s
	c.Sections = append([]Section(nil), s.Sections...)
	return c
}

type emitterKey struct{}

type emitter struct {
	mu sync.Mutex
	fn func(Event)
}

func withEmitter(ctx context.Context, fn func(Event)) context.Context {
	if fn == nil {
		return ctx
	}
	return context.WithValue(ctx, emitterKey{}, &emitter{fn: fn})
}

// emit delivers ev to the callback in ctx. Calls are serialized because section writers run
// concurrently.
func emit(ctx context.Context, ev Event) {
	e, ok := ctx.Value(emitterKey{}).(*emitter)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fn(ev)
}
