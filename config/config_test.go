package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, envFile string, environ ...string) (*Config, error) {
	t.Helper()
	if environ == nil {
		environ = []string{}
	}
	return Load(LoadOptions{
		EnvFile:     envFile,
		ExampleFile: filepath.Join(filepath.Dir(envFile), "missing.example"),
		Environ:     environ,
	})
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(""), 0o600))

	cfg, err := loadFrom(t, envFile)
	require.NoError(t, err)

	assert.Equal(t, "tavily", cfg.SearchAPI)
	assert.Equal(t, "openai", cfg.PlannerProvider)
	assert.Equal(t, "gpt-4o", cfg.PlannerModel)
	assert.Equal(t, "gpt-4o", cfg.WriterModel)
	assert.Equal(t, 1, cfg.MaxSearchDepth)
	assert.Equal(t, 2, cfg.NumberOfQueries)
	assert.Equal(t, "memory", cfg.HistoryBackend)
	assert.True(t, cfg.Tracing)
	assert.Equal(t, []string{OpenAIKey, TavilyKey, LangChainKey}, cfg.RequiredKeys())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "OPENAI_API_KEY=sk-file\nTAVILY_API_KEY=tvly-file\nLANGCHAIN_API_KEY=ls-file\nMAX_SEARCH_DEPTH=3\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	before, hadBefore := os.LookupEnv(LangChainKey)
	cfg, err := loadFrom(t, envFile, "OPENAI_API_KEY=sk-env", "SEARCH_API=brave", "BRAVE_API_KEY=brv")
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.Secret(OpenAIKey), "process environment wins")
	assert.Equal(t, "tvly-file", cfg.Secret(TavilyKey))
	assert.Equal(t, 3, cfg.MaxSearchDepth)
	assert.Equal(t, "brave", cfg.SearchAPI)
	assert.Equal(t, []string{OpenAIKey, BraveKey, LangChainKey}, cfg.RequiredKeys())
	assert.NoError(t, cfg.ValidateCredentials())

	after, hasAfter := os.LookupEnv(LangChainKey)
	assert.Equal(t, hadBefore, hasAfter, "the process environment is left untouched")
	assert.Equal(t, before, after)
}

func TestLoad_InvalidSetting(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SEARCH_API=bing\n"), 0o600))

	_, err := loadFrom(t, envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_CreatesEnvFromExample(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	example := filepath.Join(dir, ".env.example")
	require.NoError(t, os.WriteFile(example, []byte("OPENAI_API_KEY=your_openai_key\n"), 0o600))

	var out bytes.Buffer
	cfg, err := Load(LoadOptions{EnvFile: envFile, ExampleFile: example, Out: &out, Environ: []string{}})
	require.NoError(t, err)

	assert.FileExists(t, envFile)
	assert.Contains(t, out.String(), "Created")
	assert.Equal(t, "your_openai_key", cfg.Secret(OpenAIKey))
}

func TestLoad_NoEnvNoExample(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	cfg, err := Load(LoadOptions{
		EnvFile:     filepath.Join(dir, ".env"),
		ExampleFile: filepath.Join(dir, ".env.example"),
		Out:         &out,
		Environ:     []string{},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No ")
	assert.NoFileExists(t, filepath.Join(dir, ".env"))

	err = cfg.ValidateCredentials()
	var missing *MissingCredentialsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{OpenAIKey, TavilyKey, LangChainKey}, missing.Names)
}

func TestValidateCredentials_Placeholders(t *testing.T) {
	cfg := &Config{PlannerProvider: "openai", WriterProvider: "anthropic", SearchAPI: "tavily"}
	cfg.SetSecret(OpenAIKey, "sk-real")
	cfg.SetSecret(AnthropicKey, "your_anthropic_key")
	cfg.SetSecret(TavilyKey, "tvly-real")

	err := cfg.ValidateCredentials()
	var missing *MissingCredentialsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{AnthropicKey}, missing.Names)
	assert.Equal(t, []string{OpenAIKey, AnthropicKey, TavilyKey}, missing.Required)
	assert.Contains(t, err.Error(), AnthropicKey)
}
