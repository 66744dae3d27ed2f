package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jemygraw/deepresearch/store"
	"github.com/jemygraw/deepresearch/workflow"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *cliOptions) *cobra.Command {
	var clearThread bool
	cmd := &cobra.Command{
		Use:   "history <thread-id>",
		Short: "List the saved snapshots of a research thread",
		Long: `List the plan, feedback and report snapshots saved for a thread by a persistent
history backend (sqlite, redis or postgres).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if _, err := newLogger(cfg, opts.stderr); err != nil {
				return err
			}
			h, closeHistory, err := openHistory(cmd.Context(), cfg.HistoryBackend, cfg.HistoryDSN)
			if err != nil {
				return err
			}
			defer closeHistory()
			if h == nil {
				return fmt.Errorf("history backend %q keeps no snapshots", cfg.HistoryBackend)
			}

			threadID := args[0]
			if clearThread {
				if err := h.Clear(cmd.Context(), threadID); err != nil {
					return fmt.Errorf("clear thread %s: %w", threadID, err)
				}
				fmt.Fprintf(opts.stdout, "Cleared history of thread %s\n", threadID)
				return nil
			}

			snapshots, err := h.List(cmd.Context(), threadID)
			if err != nil {
				return fmt.Errorf("list thread %s: %w", threadID, err)
			}
			printHistory(opts.stdout, threadID, snapshots)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearThread, "clear", false, "Delete the thread's snapshots instead of listing them")
	return cmd
}

func printHistory(out io.Writer, threadID string, snapshots []*store.Snapshot) {
	if len(snapshots) == 0 {
		fmt.Fprintf(out, "No snapshots saved for thread %s.\n", threadID)
		return
	}

	fmt.Fprintf(out, "📁 Thread %s\n", threadID)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, snap := range snapshots {
		fmt.Fprintf(out, "  v%d  %-8s  %s  %s\n", snap.Version, snap.Stage,
			snap.Timestamp.Local().Format("2006-01-02 15:04:05"), summarize(snap))
	}
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "Total: %d snapshots\n", len(snapshots))
}

// summarize describes a snapshot's state. Backends that serialize return the state as a
// generic value, so it is decoded again into a workflow.State.
func summarize(snap *store.Snapshot) string {
	var st workflow.State
	switch v := snap.State.(type) {
	case workflow.State:
		st = v
	case *workflow.State:
		st = *v
	default:
		data, err := json.Marshal(v)
		if err != nil || json.Unmarshal(data, &st) != nil {
			return ""
		}
	}

	parts := []string{fmt.Sprintf("%q", st.Topic), fmt.Sprintf("%d sections", len(st.Sections))}
	if feedback, _ := snap.Metadata["feedback"].(string); feedback != "" {
		parts = append(parts, fmt.Sprintf("feedback %q", feedback))
	}
	if st.FinalReport != "" {
		parts = append(parts, "report written")
	}
	return strings.Join(parts, ", ")
}
