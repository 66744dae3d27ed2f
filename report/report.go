// Package report saves finished research reports.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

const (
	idLength      = 8
	maxTopicRunes = 60
	untitled      = "untitled"
)

// FileName derives the report file name from the topic and thread ID:
// report_<sanitized topic>_<first 8 characters of the ID>.md.
func FileName(topic, threadID string) string {
	return fmt.Sprintf("report_%s_%s.md", sanitize(topic), shortID(threadID))
}

// sanitize keeps letters, digits, whitespace, '-' and '_', lowercases the result and joins
// whitespace runs with '_'.
func sanitize(topic string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r), r == '-', r == '_':
			return r
		}
		return -1
	}, topic)

	s := strings.Join(strings.Fields(strings.ToLower(kept)), "_")
	if runes := []rune(s); len(runes) > maxTopicRunes {
		s = strings.TrimRight(string(runes[:maxTopicRunes]), "_-")
	}
	if s == "" {
		return untitled
	}
	return s
}

func shortID(id string) string {
	if len(id) > idLength {
		return id[:idLength]
	}
	return id
}

// Document is the Markdown written to disk: a heading with the topic, then the report.
func Document(topic, content string) string {
	return fmt.Sprintf("# Research Report: %s\n\n%s", topic, content)
}

// Save writes the report into dir and returns the file path.
func Save(dir, topic, threadID, content string) (string, error) {
	path := filepath.Join(dir, FileName(topic, threadID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Document(topic, content)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Research Report: {{.Topic}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML converts the report document to a standalone, sanitized HTML page.
func RenderHTML(topic, content string) ([]byte, error) {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	doc := parser.NewWithExtensions(extensions).Parse([]byte(Document(topic, content)))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	body := bluemonday.UGCPolicy().SanitizeBytes(markdown.Render(doc, renderer))

	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Topic string
		Body  template.HTML
	}{
		Topic: topic,
		Body:  template.HTML(body), // #nosec G203 -- sanitized above
	})
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveHTML writes the HTML rendering next to the Markdown file name, with an .html extension.
func SaveHTML(dir, topic, threadID, content string) (string, error) {
	data, err := RenderHTML(topic, content)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(FileName(topic, threadID), ".md") + ".html"
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write html report: %w", err)
	}
	return path, nil
}
