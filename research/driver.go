// Package research runs one interactive research session: read a topic, review the plan, then
// generate and save the report.
package research

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jemygraw/deepresearch/input"
	"github.com/jemygraw/deepresearch/log"
	"github.com/jemygraw/deepresearch/report"
	"github.com/jemygraw/deepresearch/workflow"
)

// Console prompts and notices.
const (
	PromptTopic     = "What topic would you like to research?"
	PromptFeedback  = "Would you like to provide feedback on the report plan? (yes/no)"
	PromptPlanNotes = "Please provide your feedback on the report plan:"
	PromptGenerate  = "Generate the full report now? This may take several minutes. (yes/no)"
	PromptSave      = "Would you like to save the report to a file? (yes/no)"

	msgNoTopic         = "No topic entered. Exiting."
	msgNoPlan          = "No report plan was generated. There might be an issue with the API."
	msgFeedbackFailed  = "Failed to apply feedback. There might be an issue with the API."
	msgCancelled       = "Report generation cancelled. Exiting."
	MsgInterrupted     = "\nProcess interrupted by user. Exiting..."
	msgGenerationNotes = "This may take several minutes depending on the complexity of the topic and depth of research."
)

// EventPrinter displays workflow events. *render.Printer implements it.
type EventPrinter interface {
	Print(ev workflow.Event)
}

// Options tunes a Driver.
type Options struct {
	// Multiline reads the topic and feedback until a line containing only EOF.
	Multiline bool
	// ReportDir is where saved reports go.
	ReportDir string
	// HTML also writes an HTML rendering when the report is saved.
	HTML bool
}

// Driver runs the session's round-trips against an Engine.
type Driver struct {
	engine  workflow.Engine
	input   *input.Reader
	printer EventPrinter
	out     io.Writer
	opts    Options
	logger  log.Logger
}

// NewDriver creates a Driver. Console prompts go through in, notices are written to out.
func NewDriver(engine workflow.Engine, in *input.Reader, printer EventPrinter, out io.Writer, opts Options, logger log.Logger) *Driver {
	if opts.ReportDir == "" {
		opts.ReportDir = "."
	}
	return &Driver{
		engine:  engine,
		input:   in,
		printer: printer,
		out:     out,
		opts:    opts,
		logger:  log.OrDefault(logger),
	}
}

// Run executes the session. Engine failures are returned; the caller reports them with
// ReportError. Declining at any prompt ends the session without error.
func (d *Driver) Run(ctx context.Context) error {
	threadID := d.engine.ThreadID()
	d.println("Thread ID for LangSmith tracking: " + threadID)

	topic, err := d.input.ReadInput(input.Options{
		Prompt:        PromptTopic,
		AllowFile:     true,
		AllowCombined: true,
		Multiline:     d.opts.Multiline,
	})
	if err != nil && !isEndOfInput(err) {
		return err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		d.println(msgNoTopic)
		return nil
	}
	d.println("\n📝 Research Topic: " + topic)

	d.println("\n--- STEP 1: GENERATING REPORT PLAN ---\n")
	n, err := d.planStep(func(emit func(workflow.Event)) error {
		return d.engine.Start(ctx, topic, emit)
	})
	if err != nil {
		return err
	}
	if n == 0 {
		d.println(msgNoPlan)
		return nil
	}

	for {
		more, err := d.confirm(PromptFeedback)
		if err != nil {
			return err
		}
		if !more {
			break
		}

		feedback, err := d.input.ReadInput(input.Options{
			Prompt:        PromptPlanNotes,
			AllowFile:     true,
			AllowCombined: true,
			Multiline:     d.opts.Multiline,
		})
		if errors.Is(err, input.ErrAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		d.println("\n--- UPDATING REPORT PLAN BASED ON FEEDBACK ---\n")
		n, err := d.planStep(func(emit func(workflow.Event)) error {
			return d.engine.Resume(ctx, feedback, emit)
		})
		if err != nil {
			return err
		}
		if n == 0 {
			d.println(msgFeedbackFailed)
			return nil
		}
	}

	generate, err := d.confirm(PromptGenerate)
	if err != nil {
		return err
	}
	if !generate {
		d.println(msgCancelled)
		return nil
	}

	d.println("\n--- GENERATING FULL REPORT ---\n")
	d.println(msgGenerationNotes + "\n")

	var final string
	err = d.engine.Approve(ctx, func(ev workflow.Event) {
		if fr, ok := ev.(workflow.FinalReportEvent); ok {
			final = fr.Report
		}
		d.printer.Print(ev)
	})
	if err != nil {
		return err
	}

	d.println("\n✅ Report generation complete!")
	d.println("Thread ID for LangSmith reference: " + threadID)

	if final != "" {
		return d.offerSave(topic, threadID, final)
	}
	return nil
}

// planStep runs one plan-producing invocation and returns how many events it produced. Once
// the plan has been displayed, later events of the same invocation are not printed.
func (d *Driver) planStep(run func(emit func(workflow.Event)) error) (int, error) {
	count := 0
	shown := false
	err := run(func(ev workflow.Event) {
		count++
		if shown {
			return
		}
		d.printer.Print(ev)
		shown = isPlan(ev)
	})
	return count, err
}

func isPlan(ev workflow.Event) bool {
	switch ev := ev.(type) {
	case workflow.PlanEvent:
		return true
	case workflow.InterruptEvent:
		text, ok := ev.Value.(string)
		return ok && strings.Contains(text, workflow.ReviewQuestion)
	}
	return false
}

// offerSave asks whether to save the report. Failures to write are reported, not returned.
func (d *Driver) offerSave(topic, threadID, content string) error {
	save, err := d.confirm(PromptSave)
	if err != nil || !save {
		return err
	}

	path, err := report.Save(d.opts.ReportDir, topic, threadID, content)
	if err != nil {
		d.logger.Error("save report: %v", err)
		d.println(fmt.Sprintf("❌ Failed to save report: %v", err))
		return nil
	}
	d.println("💾 Report saved to " + path)

	if d.opts.HTML {
		path, err := report.SaveHTML(d.opts.ReportDir, topic, threadID, content)
		if err != nil {
			d.logger.Error("save html report: %v", err)
			d.println(fmt.Sprintf("❌ Failed to save HTML report: %v", err))
			return nil
		}
		d.println("💾 HTML report saved to " + path)
	}
	return nil
}

// confirm asks a yes/no question. A closed console counts as "no".
func (d *Driver) confirm(prompt string) (bool, error) {
	ok, err := d.input.Confirm(prompt)
	if isEndOfInput(err) {
		return false, nil
	}
	return ok, err
}

func (d *Driver) println(s string) {
	fmt.Fprintln(d.out, s)
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, input.ErrAborted)
}
