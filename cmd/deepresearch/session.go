package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jemygraw/deepresearch/input"
	"github.com/jemygraw/deepresearch/render"
	"github.com/jemygraw/deepresearch/research"
	"github.com/jemygraw/deepresearch/workflow"
	"github.com/spf13/cobra"
)

const reportWidth = 100

func runSession(cmd *cobra.Command, opts *cliOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := research.CheckCredentials(cfg, opts.stdout); err != nil {
		return errReported
	}
	logger, err := newLogger(cfg, opts.stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := workflow.NewDeps(cfg, logger)
	if err != nil {
		return err
	}
	runnable, err := workflow.NewGraph(deps)
	if err != nil {
		return err
	}

	history, closeHistory, err := openHistory(ctx, cfg.HistoryBackend, cfg.HistoryDSN)
	if err != nil {
		return err
	}
	defer closeHistory()

	sessionOpts := []workflow.SessionOption{workflow.WithLogger(logger)}
	if opts.threadID != "" {
		sessionOpts = append(sessionOpts, workflow.WithThreadID(opts.threadID))
	}
	if history != nil {
		sessionOpts = append(sessionOpts, workflow.WithHistory(history))
	}
	session := workflow.NewSession(runnable, workflow.SettingsFromConfig(cfg, ""), sessionOpts...)

	var printerOpts []render.Option
	if !opts.plain {
		md, err := render.NewGlamourRenderer(reportWidth)
		if err != nil {
			logger.Warn("markdown rendering disabled: %v", err)
		} else {
			printerOpts = append(printerOpts, render.WithMarkdown(md))
		}
	}
	printer := render.NewPrinter(opts.stdout, printerOpts...)

	reader := input.NewReader(opts.stdin, opts.stdout,
		input.WithBaseDirs(cfg.InputDirs...),
		input.WithLogger(logger))

	driver := research.NewDriver(session, reader, printer, opts.stdout, research.Options{
		Multiline: opts.multiline,
		ReportDir: cfg.ReportDir,
		HTML:      opts.html,
	}, logger)

	// Console reads do not observe ctx, so the driver runs aside and an interrupt ends the
	// command without waiting for it.
	done := make(chan error, 1)
	go func() {
		done <- driver.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			research.ReportError(opts.stdout, err)
			return errReported
		}
		return nil
	case <-ctx.Done():
		fmt.Fprintln(opts.stdout, research.MsgInterrupted)
		return nil
	}
}
