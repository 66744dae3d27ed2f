package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jemygraw/deepresearch/log"
)

// Sentinel ends a multi-line answer.
const Sentinel = "EOF"

// DefaultMaxAttempts bounds re-prompting after a failed whole-file directive.
const DefaultMaxAttempts = 3

// ErrAborted is returned when the user cancels a re-prompt or runs out of attempts.
var ErrAborted = errors.New("input aborted")

const cancelWord = "cancel"

// Options controls a single ReadInput call.
type Options struct {
	// Prompt is printed before reading.
	Prompt string
	// AllowFile treats an answer of exactly "file:<path>" as the contents of that file.
	AllowFile bool
	// Multiline reads until a line equal to Sentinel instead of a single line.
	Multiline bool
	// AllowCombined expands {{file:<path>}} references and offers to append a file.
	AllowCombined bool
}

// Reader reads answers from a console.
type Reader struct {
	in          *bufio.Reader
	out         io.Writer
	resolver    *PathResolver
	readFile    FileReader
	logger      log.Logger
	maxAttempts int
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithResolver sets the path resolver.
func WithResolver(resolver *PathResolver) ReaderOption {
	return func(r *Reader) {
		r.resolver = resolver
	}
}

// WithBaseDirs searches dirs before the fallback directories.
func WithBaseDirs(dirs ...string) ReaderOption {
	return func(r *Reader) {
		r.resolver = NewPathResolver(dirs...)
	}
}

// WithFileReader replaces os.ReadFile.
func WithFileReader(readFile FileReader) ReaderOption {
	return func(r *Reader) {
		r.readFile = readFile
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger log.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithMaxAttempts bounds re-prompting after a failed whole-file directive.
func WithMaxAttempts(n int) ReaderOption {
	return func(r *Reader) {
		if n < 1 {
			n = 1
		}
		r.maxAttempts = n
	}
}

// NewReader creates a Reader reading answers from in and writing prompts to out.
func NewReader(in io.Reader, out io.Writer, opts ...ReaderOption) *Reader {
	r := &Reader{
		in:          bufio.NewReader(in),
		out:         out,
		resolver:    NewPathResolver(),
		readFile:    os.ReadFile,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.OrDefault(r.logger)
	return r
}

// ReadInput prints opts.Prompt, reads an answer and resolves file directives and references
// according to opts. It returns io.EOF when the console is closed before an answer arrives and
// ErrAborted when the user gives up on a failing whole-file directive.
func (r *Reader) ReadInput(opts Options) (string, error) {
	prompt := opts.Prompt
	for attempt := 1; ; attempt++ {
		text, err := r.readAnswer(prompt, opts.Multiline)
		if err != nil {
			return "", err
		}

		if attempt > 1 && strings.EqualFold(strings.TrimSpace(text), cancelWord) {
			return "", ErrAborted
		}

		if opts.AllowFile {
			if path, ok := ParseDirective(text); ok {
				content, err := r.loadFile(path)
				if err == nil {
					return content, nil
				}
				r.printf("❌ %v\n", err)
				if attempt >= r.maxAttempts {
					r.printf("Giving up after %d attempts.\n", attempt)
					return "", ErrAborted
				}
				prompt = fmt.Sprintf("%s\n(Enter a different answer or file path, or type '%s' to abort.)", opts.Prompt, cancelWord)
				continue
			}
		}

		if !opts.AllowCombined {
			return text, nil
		}
		return r.combine(text)
	}
}

func (r *Reader) combine(text string) (string, error) {
	if HasReferences(text) {
		expanded, unresolved := ExpandReferences(text, r.resolver, r.readFile)
		for _, u := range unresolved {
			if u.Err != nil {
				r.printf("❌ Error reading file %s: %v\n", u.Path, u.Err)
			} else {
				r.printf("⚠️  File not found: %s (reference left unchanged)\n", u.Path)
			}
			r.logger.Warn("unresolved file reference: %s", u)
		}
		return expanded, nil
	}

	add, err := r.Confirm("Would you like to append the contents of a file? (yes/no)")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return text, nil
		}
		return "", err
	}
	if !add {
		return text, nil
	}

	path, err := r.readAnswer("Enter the path of the file to append:", false)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return text, nil
		}
		return "", err
	}
	content, err := r.loadFile(strings.TrimSpace(path))
	if err != nil {
		r.printf("❌ %v\n", err)
		return text, nil
	}
	return appendBlock(text, content), nil
}

// Confirm asks a yes/no question until it gets y, yes, n or no.
func (r *Reader) Confirm(prompt string) (bool, error) {
	for {
		answer, err := r.readAnswer(prompt, false)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		r.printf("Invalid choice. Please enter 'yes' or 'no'.\n")
	}
}

func (r *Reader) loadFile(path string) (string, error) {
	resolved, ok := r.resolver.Resolve(path)
	if !ok {
		return "", fmt.Errorf("file not found: %s", path)
	}
	data, err := r.readFile(resolved)
	if err != nil {
		return "", fmt.Errorf("error reading file %s: %w", resolved, err)
	}
	r.logger.Debug("loaded %s (%d bytes) for %q", resolved, len(data), path)
	r.printf("📄 Loaded %s\n", resolved)
	return string(data), nil
}

func (r *Reader) readAnswer(prompt string, multiline bool) (string, error) {
	r.printf("\n%s\n", prompt)
	if !multiline {
		r.printf("> ")
		line, err := r.readLine()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	r.printf("(Finish with a line containing only %s)\n", Sentinel)
	var lines []string
	for {
		r.printf("> ")
		line, err := r.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			return "", err
		}
		if strings.TrimSpace(line) == Sentinel {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// readLine returns one line without its terminator. A final unterminated line is returned
// without error; io.EOF is returned only when nothing was read.
func (r *Reader) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *Reader) printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// appendBlock joins content after text, separated by a blank line.
func appendBlock(text, content string) string {
	switch {
	case text == "", strings.HasSuffix(text, "\n\n"):
		return text + content
	case strings.HasSuffix(text, "\n"):
		return text + "\n" + content
	default:
		return text + "\n\n" + content
	}
}
