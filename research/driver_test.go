package research

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jemygraw/deepresearch/input"
	"github.com/jemygraw/deepresearch/log"
	"github.com/jemygraw/deepresearch/render"
	"github.com/jemygraw/deepresearch/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlan = []workflow.Section{
	{Name: "Introduction", Description: "Overview"},
	{Name: "Market", Description: "Players", Research: true},
}

const reviewText = "Section: Introduction\n\n" + workflow.ReviewQuestion + "\nPass 'true' to approve the report plan."

type fakeEngine struct {
	startEvents   []workflow.Event
	resumeEvents  []workflow.Event
	approveEvents []workflow.Event
	startErr      error
	approveErr    error

	calls     []string
	topic     string
	feedbacks []string
}

func (f *fakeEngine) Start(ctx context.Context, topic string, emit func(workflow.Event)) error {
	f.calls = append(f.calls, "start")
	f.topic = topic
	for _, ev := range f.startEvents {
		emit(ev)
	}
	return f.startErr
}

func (f *fakeEngine) Resume(ctx context.Context, feedback string, emit func(workflow.Event)) error {
	f.calls = append(f.calls, "resume")
	f.feedbacks = append(f.feedbacks, feedback)
	for _, ev := range f.resumeEvents {
		emit(ev)
	}
	return nil
}

func (f *fakeEngine) Approve(ctx context.Context, emit func(workflow.Event)) error {
	f.calls = append(f.calls, "approve")
	for _, ev := range f.approveEvents {
		emit(ev)
	}
	return f.approveErr
}

func (f *fakeEngine) ThreadID() string { return "abcdef12-0000-0000-0000-000000000000" }

func (f *fakeEngine) State() workflow.State { return workflow.State{} }

func planEngine() *fakeEngine {
	return &fakeEngine{
		startEvents: []workflow.Event{
			workflow.PlanEvent{Sections: testPlan},
			workflow.InterruptEvent{Value: reviewText},
		},
		resumeEvents: []workflow.Event{
			workflow.UnknownEvent{Node: workflow.NodeHumanFeedback},
			workflow.PlanEvent{Sections: testPlan},
			workflow.InterruptEvent{Value: reviewText},
		},
		approveEvents: []workflow.Event{
			workflow.SectionEvent{Section: workflow.Section{Name: "Market", Content: "## Market"}},
			workflow.FinalReportEvent{Report: "## Introduction\n\n## Market"},
		},
	}
}

func runDriver(t *testing.T, engine workflow.Engine, script string, opts Options) string {
	t.Helper()
	var out bytes.Buffer
	reader := input.NewReader(strings.NewReader(script), &out,
		input.WithResolver(&input.PathResolver{FallbackDirs: []string{}}),
		input.WithLogger(log.NoOpLogger{}))
	d := NewDriver(engine, reader, render.NewPrinter(&out), &out, opts, log.NoOpLogger{})
	require.NoError(t, d.Run(context.Background()))
	return out.String()
}

func TestDriver_FullSession(t *testing.T) {
	engine := planEngine()
	dir := t.TempDir()

	script := strings.Join([]string{
		"Grid-scale storage", // topic
		"no",                 // append a file?
		"yes",                // feedback?
		"Add a policy section",
		"no", // append a file?
		"no", // more feedback?
		"yes", // generate
		"yes", // save
	}, "\n") + "\n"
	out := runDriver(t, engine, script, Options{ReportDir: dir})

	assert.Equal(t, []string{"start", "resume", "approve"}, engine.calls)
	assert.Equal(t, "Grid-scale storage", engine.topic)
	assert.Equal(t, []string{"Add a policy section"}, engine.feedbacks)

	assert.Contains(t, out, "Thread ID for LangSmith tracking: abcdef12-")
	assert.Contains(t, out, "--- STEP 1: GENERATING REPORT PLAN ---")
	assert.Contains(t, out, "--- UPDATING REPORT PLAN BASED ON FEEDBACK ---")
	assert.Contains(t, out, "SECTION 2: Market")
	assert.Contains(t, out, "📑 Market")
	assert.Contains(t, out, "📊 FINAL REPORT")
	assert.Contains(t, out, "✅ Report generation complete!")

	path := filepath.Join(dir, "report_grid-scale_storage_abcdef12.md")
	assert.Contains(t, out, "💾 Report saved to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Research Report: Grid-scale storage\n\n## Introduction"))
}

func TestDriver_PlanShownOncePerStep(t *testing.T) {
	engine := planEngine()
	out := runDriver(t, engine, "Topic\nno\nno\nno\n", Options{})

	// The interrupt repeats the plan; only the first rendering is printed.
	assert.Equal(t, 1, strings.Count(out, "📋 REPORT PLAN:"))
}

func TestDriver_InterruptShownWhenNoPlanEvent(t *testing.T) {
	engine := planEngine()
	engine.startEvents = []workflow.Event{workflow.InterruptEvent{Value: reviewText}}

	out := runDriver(t, engine, "Topic\nno\nno\nno\n", Options{})
	assert.Contains(t, out, "📋 REPORT PLAN:\n\nSection: Introduction\n")
}

func TestDriver_DecliningGenerationNeverApproves(t *testing.T) {
	engine := planEngine()

	out := runDriver(t, engine, "Topic\nno\nno\nno\n", Options{})

	assert.Equal(t, []string{"start"}, engine.calls)
	assert.Contains(t, out, "Report generation cancelled. Exiting.")
}

func TestDriver_InvalidChoiceReasks(t *testing.T) {
	engine := planEngine()

	out := runDriver(t, engine, "Topic\nno\nmaybe\nno\nnope\nno\n", Options{})

	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please enter 'yes' or 'no'."))
	assert.Equal(t, []string{"start"}, engine.calls)
}

func TestDriver_EmptyTopic(t *testing.T) {
	engine := planEngine()

	out := runDriver(t, engine, "\n", Options{})

	assert.Empty(t, engine.calls)
	assert.Contains(t, out, "No topic entered. Exiting.")
}

func TestDriver_ClosedConsole(t *testing.T) {
	engine := planEngine()

	out := runDriver(t, engine, "", Options{})

	assert.Empty(t, engine.calls)
	assert.Contains(t, out, "No topic entered. Exiting.")
}

func TestDriver_NoPlanEvents(t *testing.T) {
	engine := planEngine()
	engine.startEvents = nil

	out := runDriver(t, engine, "Topic\nno\n", Options{})

	assert.Equal(t, []string{"start"}, engine.calls)
	assert.Contains(t, out, "No report plan was generated. There might be an issue with the API.")
	assert.NotContains(t, out, "Would you like to provide feedback")
}

func TestDriver_FeedbackProducesNothing(t *testing.T) {
	engine := planEngine()
	engine.resumeEvents = nil

	out := runDriver(t, engine, "Topic\nno\nyes\nmore detail\nno\n", Options{})

	assert.Equal(t, []string{"start", "resume"}, engine.calls)
	assert.Contains(t, out, "Failed to apply feedback. There might be an issue with the API.")
}

func TestDriver_TopicFromFileDirective(t *testing.T) {
	dir := t.TempDir()
	topicFile := filepath.Join(dir, "topic.txt")
	require.NoError(t, os.WriteFile(topicFile, []byte("Ocean acidification"), 0o644))

	engine := planEngine()
	runDriver(t, engine, "file:"+topicFile+"\nno\nno\n", Options{})

	assert.Equal(t, "Ocean acidification", engine.topic)
}

func TestDriver_EngineError(t *testing.T) {
	engine := planEngine()
	engine.startErr = errors.New("authentication_error: bad key")

	var out bytes.Buffer
	reader := input.NewReader(strings.NewReader("Topic\nno\n"), &out, input.WithResolver(&input.PathResolver{FallbackDirs: []string{}}))
	d := NewDriver(engine, reader, render.NewPrinter(&out), &out, Options{}, log.NoOpLogger{})

	err := d.Run(context.Background())
	assert.ErrorIs(t, err, engine.startErr)
}

func TestDriver_SaveDeclined(t *testing.T) {
	engine := planEngine()
	dir := t.TempDir()

	out := runDriver(t, engine, "Topic\nno\nno\nyes\nno\n", Options{ReportDir: dir})

	assert.NotContains(t, out, "Report saved")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDriver_SaveFailureIsReported(t *testing.T) {
	engine := planEngine()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	out := runDriver(t, engine, "Topic\nno\nno\nyes\nyes\n", Options{ReportDir: blocker})

	assert.Contains(t, out, "❌ Failed to save report")
	assert.Contains(t, out, "📊 FINAL REPORT")
}

func TestDriver_SaveHTML(t *testing.T) {
	engine := planEngine()
	dir := t.TempDir()

	runDriver(t, engine, "Topic\nno\nno\nyes\nyes\n", Options{ReportDir: dir, HTML: true})

	_, err := os.Stat(filepath.Join(dir, "report_topic_abcdef12.html"))
	assert.NoError(t, err)
}
