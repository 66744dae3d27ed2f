// Package log provides the leveled logging interface used across deepresearch.
//
// Diagnostics (resolver lookups, workflow node progress, store operations) go through a
// Logger, never through the console writer that carries prompts and report output. Two
// implementations are provided:
//
//   - DefaultLogger writes through Go's standard log package.
//   - GologLogger forwards to github.com/kataras/golog and is what the CLI uses.
//
// # Example Usage
//
//	logger := log.NewGologLogger(os.Stderr, log.LogLevelInfo)
//	logger.Info("thread %s started", threadID)
//	logger.SetLevel(log.LogLevelDebug)
//	logger.Debug("resolved %s -> %s", ref, path)
//
// A level string from configuration can be turned into a LogLevel with ParseLevel:
//
//	level, err := log.ParseLevel("warn")
//
// # Package-level Logger
//
// Code that has no logger injected can use the package-level functions (Debug, Info, Warn,
// Error), which forward to the logger installed with SetDefaultLogger.
package log
