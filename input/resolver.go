package input

import (
	"os"
	"path/filepath"
)

// DefaultFallbackDirs are searched after any caller-supplied base directories.
var DefaultFallbackDirs = []string{".", "data", "inputs", "input", "docs"}

// PathResolver finds the file a user meant by a possibly relative, possibly quoted path.
type PathResolver struct {
	// BaseDirs are searched after directories passed to Resolve.
	BaseDirs []string
	// FallbackDirs are searched last. Nil means DefaultFallbackDirs.
	FallbackDirs []string

	stat func(string) (os.FileInfo, error)
}

// NewPathResolver creates a resolver that also searches baseDirs.
func NewPathResolver(baseDirs ...string) *PathResolver {
	return &PathResolver{BaseDirs: baseDirs}
}

// Resolve returns the first existing regular file for path. It checks, in order, the path as
// given, each of baseDirs and r.BaseDirs joined with it, and each fallback directory joined
// with it. If nothing matches and path is wrapped in one pair of matching quotes, the lookup
// is repeated once without them. A miss is reported as ok == false.
func (r *PathResolver) Resolve(path string, baseDirs ...string) (string, bool) {
	if path == "" {
		return "", false
	}
	if found, ok := r.lookup(path, baseDirs); ok {
		return found, true
	}
	if unquoted, ok := stripQuotes(path); ok && unquoted != "" {
		return r.lookup(unquoted, baseDirs)
	}
	return "", false
}

func (r *PathResolver) lookup(path string, baseDirs []string) (string, bool) {
	if r.isFile(path) {
		return path, true
	}
	if filepath.IsAbs(path) {
		return "", false
	}

	fallback := r.FallbackDirs
	if fallback == nil {
		fallback = DefaultFallbackDirs
	}

	dirs := make([]string, 0, len(baseDirs)+len(r.BaseDirs)+len(fallback))
	dirs = append(dirs, baseDirs...)
	dirs = append(dirs, r.BaseDirs...)
	dirs = append(dirs, fallback...)

	for _, dir := range dirs {
		candidate := filepath.Join(dir, path)
		if r.isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (r *PathResolver) isFile(path string) bool {
	stat := r.stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(path)
	return err == nil && info.Mode().IsRegular()
}

// stripQuotes removes one pair of matching single or double quotes.
func stripQuotes(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1], true
	}
	return s, false
}
