package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jemygraw/deepresearch/workflow"
	"github.com/stretchr/testify/assert"
)

var (
	equalsRule = strings.Repeat("=", 80)
	dashRule   = strings.Repeat("-", 80)
)

func TestPrinter_Plan(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(workflow.PlanEvent{Sections: []workflow.Section{
		{Name: "Introduction", Description: "Overview", Research: false},
		{Name: "Market", Description: "Players and size", Research: true},
	}})

	want := "\n📋 REPORT PLAN:\n\n" +
		equalsRule + "\n" +
		"SECTION 1: Introduction\n" +
		dashRule + "\n" +
		"Description: Overview\n" +
		"Research needed: No\n" +
		equalsRule + "\n" +
		"SECTION 2: Market\n" +
		dashRule + "\n" +
		"Description: Players and size\n" +
		"Research needed: Yes\n" +
		equalsRule + "\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_Interrupt(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(workflow.InterruptEvent{
		Value: "Section: Intro\nDescription: x\n\n" + workflow.ReviewQuestion + "\nPass 'true' to approve the report plan.",
	})

	assert.Equal(t, "\n📋 REPORT PLAN:\n\nSection: Intro\nDescription: x\n", buf.String())
}

func TestPrinter_InterruptWithoutQuestionIsRaw(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Print(workflow.InterruptEvent{Value: "waiting"})
	p.Print(workflow.InterruptEvent{Value: 42})

	assert.Equal(t, "waiting\n\n42\n\n", buf.String())
}

func TestPrinter_Section(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(workflow.SectionEvent{Section: workflow.Section{Name: "Market", Content: "## Market\n\nBig."}})

	want := "\n" + equalsRule + "\n📑 Market\n" + dashRule + "\n\n## Market\n\nBig.\n\n" + equalsRule + "\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_EmptySectionIsRaw(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(workflow.SectionEvent{Section: workflow.Section{Name: "Market"}})

	assert.NotContains(t, buf.String(), "📑")
	assert.True(t, strings.HasSuffix(buf.String(), "\n\n"))
}

func TestPrinter_FinalReport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(workflow.FinalReportEvent{Report: "# Report"})

	out := buf.String()
	assert.Contains(t, out, "📊 FINAL REPORT\n"+dashRule+"\n\n# Report\n")
}

func TestPrinter_Unknown(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(workflow.UnknownEvent{Node: "human_feedback", Payload: "ok"})

	assert.Equal(t, "map[human_feedback:ok]\n\n", buf.String())
}

type upperRenderer struct{ err error }

func (u upperRenderer) Render(in string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return strings.ToUpper(in) + "\n\n", nil
}

func TestPrinter_Markdown(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, WithMarkdown(upperRenderer{})).Print(workflow.FinalReportEvent{Report: "# report"})
	assert.Contains(t, buf.String(), "# REPORT\n\n"+equalsRule)

	buf.Reset()
	NewPrinter(&buf, WithMarkdown(upperRenderer{err: errors.New("bad style")})).Print(workflow.FinalReportEvent{Report: "# report"})
	assert.Contains(t, buf.String(), "# report\n")
}

func TestNewGlamourRenderer(t *testing.T) {
	r, err := NewGlamourRenderer(60)
	if err != nil {
		t.Fatalf("NewGlamourRenderer: %v", err)
	}
	out, err := r.Render("# Title\n\nBody text.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Title") {
		t.Errorf("rendered output lost the heading: %q", out)
	}
}
