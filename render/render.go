// Package render prints workflow events to the console.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/jemygraw/deepresearch/workflow"
)

const ruleWidth = 80

// MarkdownRenderer turns Markdown into terminal text. *glamour.TermRenderer implements it.
type MarkdownRenderer interface {
	Render(in string) (string, error)
}

// NewGlamourRenderer returns a Markdown renderer that wraps at width and picks a style from
// the terminal background.
func NewGlamourRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}

// Printer writes events to a console writer.
type Printer struct {
	out      io.Writer
	markdown MarkdownRenderer

	heading lipgloss.Style
	rule    lipgloss.Style
}

// Option configures a Printer.
type Option func(*Printer)

// WithMarkdown renders section and report bodies through r.
func WithMarkdown(r MarkdownRenderer) Option {
	return func(p *Printer) {
		p.markdown = r
	}
}

// NewPrinter creates a Printer. Styles degrade to plain text when out is not a terminal.
func NewPrinter(out io.Writer, opts ...Option) *Printer {
	r := lipgloss.NewRenderer(out)
	p := &Printer{
		out:     out,
		heading: r.NewStyle().Bold(true),
		rule:    r.NewStyle().Faint(true),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print writes one event.
func (p *Printer) Print(ev workflow.Event) {
	switch ev := ev.(type) {
	case workflow.PlanEvent:
		p.plan(ev.Sections)
	case workflow.InterruptEvent:
		p.interrupt(ev)
	case workflow.SectionEvent:
		if ev.Section.Content == "" {
			p.raw(ev)
			return
		}
		p.block("📑 "+ev.Section.Name, ev.Section.Content)
	case workflow.FinalReportEvent:
		if ev.Report == "" {
			p.raw(ev)
			return
		}
		p.block("📊 FINAL REPORT", ev.Report)
	case workflow.UnknownEvent:
		p.raw(map[string]any{ev.Node: ev.Payload})
	default:
		p.raw(ev)
	}
}

func (p *Printer) plan(sections []workflow.Section) {
	fmt.Fprintf(p.out, "\n%s\n\n", p.heading.Render("📋 REPORT PLAN:"))
	p.ruleLine("=")
	for i, sec := range sections {
		fmt.Fprintf(p.out, "SECTION %d: %s\n", i+1, p.heading.Render(sec.Name))
		p.ruleLine("-")
		fmt.Fprintf(p.out, "Description: %s\n", sec.Description)
		fmt.Fprintf(p.out, "Research needed: %s\n", yesNo(sec.Research))
		p.ruleLine("=")
	}
}

// interrupt prints the plan part of a review message, the text before the review question.
func (p *Printer) interrupt(ev workflow.InterruptEvent) {
	text, ok := ev.Value.(string)
	if !ok {
		p.raw(ev.Value)
		return
	}
	plan, _, found := strings.Cut(text, workflow.ReviewQuestion)
	if !found {
		p.raw(text)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n\n", p.heading.Render("📋 REPORT PLAN:"))
	fmt.Fprintln(p.out, strings.TrimSpace(plan))
}

func (p *Printer) block(title, body string) {
	fmt.Fprintln(p.out)
	p.ruleLine("=")
	fmt.Fprintln(p.out, p.heading.Render(title))
	p.ruleLine("-")
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.body(body))
	fmt.Fprintln(p.out)
	p.ruleLine("=")
}

func (p *Printer) body(md string) string {
	if p.markdown == nil {
		return md
	}
	out, err := p.markdown.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func (p *Printer) raw(v any) {
	fmt.Fprintf(p.out, "%v\n\n", v)
}

func (p *Printer) ruleLine(ch string) {
	fmt.Fprintln(p.out, p.rule.Render(strings.Repeat(ch, ruleWidth)))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
