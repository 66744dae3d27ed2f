package input

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	// DirectivePrefix marks an answer that should be replaced by a whole file.
	DirectivePrefix = "file:"

	refOpen = "{{file:"
)

// refPattern matches a single-quoted, double-quoted or bare token. At a quote the quoted
// alternatives win, so a quote pair around a token belongs to it.
var refPattern = regexp.MustCompile(`'\{\{file:([^{}]+?)\}\}'|"\{\{file:([^{}]+?)\}\}"|\{\{file:([^{}]+?)\}\}`)

// FileReader reads a resolved file. os.ReadFile satisfies it.
type FileReader func(path string) ([]byte, error)

// Reference is one {{file:...}} token found in a text.
type Reference struct {
	// Token is the text as matched, including braces and any quotes.
	Token string
	// Path is the path between "file:" and "}}", trimmed.
	Path string
}

// Unresolved describes a reference left in place.
type Unresolved struct {
	Path string
	// Err is nil when the file was not found, otherwise the read error.
	Err error
}

func (u Unresolved) String() string {
	if u.Err != nil {
		return fmt.Sprintf("error reading file %s: %v", u.Path, u.Err)
	}
	return fmt.Sprintf("file not found: %s", u.Path)
}

// FindReferences returns the references in text, de-duplicated by path in first-seen order.
// Quoted and bare forms of the same path count once. A token with a blank path is not a
// reference.
func FindReferences(text string) []Reference {
	seen := make(map[string]bool)
	var refs []Reference
	for _, m := range refPattern.FindAllStringSubmatchIndex(text, -1) {
		path := matchPath(text, m)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		refs = append(refs, Reference{Token: text[m[0]:m[1]], Path: path})
	}
	return refs
}

// matchPath returns the trimmed path of a refPattern match.
func matchPath(text string, m []int) string {
	for g := 1; g <= 3; g++ {
		if m[2*g] >= 0 {
			return strings.TrimSpace(text[m[2*g]:m[2*g+1]])
		}
	}
	return ""
}

// HasReferences reports whether text contains at least one token FindReferences would return.
func HasReferences(text string) bool {
	return len(FindReferences(text)) > 0
}

// ParseDirective reports whether text is exactly a whole-file directive and returns its path.
func ParseDirective(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.ContainsAny(trimmed, "\r\n") || strings.Contains(trimmed, refOpen) {
		return "", false
	}
	path, ok := strings.CutPrefix(trimmed, DirectivePrefix)
	if !ok {
		return "", false
	}
	path = strings.TrimSpace(path)
	return path, path != ""
}

// ExpandReferences replaces every resolvable {{file:<path>}} token in text with the contents
// of the file. Each distinct path is resolved and read once, and all of its plain,
// single-quoted and double-quoted occurrences receive the same content. Inserted contents are
// never scanned for tokens. Tokens that cannot be resolved or read stay in the text and are
// returned as Unresolved.
func ExpandReferences(text string, resolver *PathResolver, readFile FileReader) (string, []Unresolved) {
	if resolver == nil {
		resolver = NewPathResolver()
	}
	if readFile == nil {
		readFile = os.ReadFile
	}

	contents := make(map[string]string)
	var unresolved []Unresolved
	for _, ref := range FindReferences(text) {
		resolved, ok := resolver.Resolve(ref.Path)
		if !ok {
			unresolved = append(unresolved, Unresolved{Path: ref.Path})
			continue
		}
		data, err := readFile(resolved)
		if err != nil {
			unresolved = append(unresolved, Unresolved{Path: ref.Path, Err: err})
			continue
		}
		contents[ref.Path] = string(data)
	}
	if len(contents) == 0 {
		return text, unresolved
	}

	var sb strings.Builder
	last := 0
	for _, m := range refPattern.FindAllStringSubmatchIndex(text, -1) {
		content, ok := contents[matchPath(text, m)]
		if !ok {
			continue
		}
		sb.WriteString(text[last:m[0]])
		sb.WriteString(content)
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String(), unresolved
}
