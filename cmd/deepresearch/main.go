// Command deepresearch runs an interactive deep-research session: it plans a report on a
// topic, takes feedback on the plan, then researches and writes the full report.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jemygraw/deepresearch/config"
	"github.com/jemygraw/deepresearch/log"
	"github.com/spf13/cobra"
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("deepresearch: failed")

// cliOptions holds the flags shared by all commands.
type cliOptions struct {
	envFile   string
	multiline bool
	reportDir string
	html      bool
	history   string
	dsn       string
	logLevel  string
	searchAPI string
	planner   string
	writer    string
	threadID  string
	plain     bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deepresearch",
		Short: "Plan, review and write a research report",
		Long: `deepresearch asks for a research topic, drafts a report plan and lets you refine it
with feedback before researching every section and writing the final report.

Answers may load files: "file:<path>" uses a whole file as the answer, and
{{file:<path>}} inside an answer is replaced by the file's contents.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Credential file")
	flags.StringVar(&opts.history, "history", "", "History backend: none, memory, sqlite, redis or postgres (or set HISTORY_BACKEND)")
	flags.StringVar(&opts.dsn, "history-dsn", "", "History backend location: SQLite path, Redis address or URL, Postgres connection string (or set HISTORY_DSN)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Diagnostics level: debug, info, warn, error or none (or set LOG_LEVEL)")

	rootCmd.Flags().BoolVarP(&opts.multiline, "multiline", "m", false, "Read the topic and feedback until a line containing only EOF")
	rootCmd.Flags().StringVarP(&opts.reportDir, "report-dir", "o", "", "Directory for saved reports (or set REPORT_DIR)")
	rootCmd.Flags().BoolVar(&opts.html, "html", false, "Also save an HTML rendering of the report")
	rootCmd.Flags().StringVar(&opts.searchAPI, "search-api", "", "Search provider: tavily or brave (or set SEARCH_API)")
	rootCmd.Flags().StringVar(&opts.planner, "planner-model", "", "Planner model (or set PLANNER_MODEL)")
	rootCmd.Flags().StringVar(&opts.writer, "writer-model", "", "Writer model (or set WRITER_MODEL)")
	rootCmd.Flags().StringVar(&opts.threadID, "thread-id", "", "Thread ID to use instead of a random one")
	rootCmd.Flags().BoolVar(&opts.plain, "plain", false, "Print the final report as plain Markdown")

	rootCmd.AddCommand(newHistoryCmd(opts))
	return rootCmd
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(opts *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{EnvFile: opts.envFile, Out: opts.stdout})
	if err != nil {
		return nil, err
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.HistoryBackend, opts.history)
	override(&cfg.HistoryDSN, opts.dsn)
	override(&cfg.LogLevel, opts.logLevel)
	override(&cfg.ReportDir, opts.reportDir)
	override(&cfg.SearchAPI, opts.searchAPI)
	override(&cfg.PlannerModel, opts.planner)
	override(&cfg.WriterModel, opts.writer)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.NewGologLogger(out, level)
	log.SetDefaultLogger(logger)
	return logger, nil
}

func main() {
	opts := &cliOptions{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := newRootCmd(opts).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
