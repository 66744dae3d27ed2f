package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		topic    string
		threadID string
		want     string
	}{
		{"AI Safety 2024!", "abcdef12-3456-7890-abcd-ef1234567890", "report_ai_safety_2024_abcdef12.md"},
		{"  Rust vs. Go:  memory   safety ", "12345678abcd", "report_rust_vs_go_memory_safety_12345678.md"},
		{"multi-line\ntopic_name", "short", "report_multi-line_topic_name_short.md"},
		{"Café économie", "abcdef1234", "report_café_économie_abcdef12.md"},
		{"?!", "abcdef1234", "report_untitled_abcdef12.md"},
		{"a  b", "abcdef1234", "report_a_b_abcdef12.md"},
		{"a \t\t b", "abcdef1234", "report_a_b_abcdef12.md"},
		{"a__b", "abcdef1234", "report_a__b_abcdef12.md"},
		{strings.Repeat("x", 70), "abcdef1234", "report_" + strings.Repeat("x", 60) + "_abcdef12.md"},
		{strings.Repeat("é", 61), "abcdef1234", "report_" + strings.Repeat("é", 60) + "_abcdef12.md"},
		{strings.Repeat("word ", 40), "abcdef1234", "report_" + strings.Repeat("word_", 11) + "word_abcdef12.md"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.topic, tt.threadID))
		})
	}
}

func TestFileName_LongTopicTruncated(t *testing.T) {
	name := FileName(strings.Repeat("word ", 40), "abcdef1234")

	topic := strings.TrimSuffix(strings.TrimPrefix(name, "report_"), "_abcdef12.md")
	assert.LessOrEqual(t, len([]rune(topic)), maxTopicRunes)
	assert.False(t, strings.HasSuffix(topic, "_"))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := Save(dir, "AI Safety 2024!", "abcdef12-3456", "## Intro\n\nText.")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_ai_safety_2024_abcdef12.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Research Report: AI Safety 2024!\n\n## Intro\n\nText.", string(data))
}

func TestSave_Unwritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := Save(file, "topic", "abcdef12", "x")
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML("Tides <b>", "## Moon\n\nGravity [link](https://example.com).\n\n<script>alert(1)</script>")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<title>Research Report: Tides &lt;b&gt;</title>")
	assert.Contains(t, html, `<h2 id="moon">Moon</h2>`)
	assert.Contains(t, html, `href="https://example.com"`)
	assert.NotContains(t, html, "<script>")
}

func TestSaveHTML(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveHTML(dir, "AI Safety 2024!", "abcdef12-3456", "Body")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_ai_safety_2024_abcdef12.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<p>Body</p>")
}
