// Package config builds the run configuration and credential bundle once at startup.
//
// Values come from the process environment and a .env file (read with godotenv, never
// written back into the process environment), are parsed with caarlos0/env and validated with
// go-playground/validator. The resulting *Config is passed explicitly to the components that
// need it.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	// DefaultEnvFile is the credential file read at startup.
	DefaultEnvFile = ".env"
	// DefaultExampleFile seeds DefaultEnvFile when it does not exist.
	DefaultExampleFile = ".env.example"

	placeholderPrefix = "your_"
)

// Credential names.
const (
	OpenAIKey    = "OPENAI_API_KEY"
	AnthropicKey = "ANTHROPIC_API_KEY"
	TavilyKey    = "TAVILY_API_KEY"
	BraveKey     = "BRAVE_API_KEY"
	LangChainKey = "LANGCHAIN_API_KEY"
)

var providerKeys = map[string]string{
	"openai":    OpenAIKey,
	"anthropic": AnthropicKey,
	"tavily":    TavilyKey,
	"brave":     BraveKey,
}

// Config is the run configuration.
type Config struct {
	SearchAPI       string `env:"SEARCH_API" envDefault:"tavily" validate:"oneof=tavily brave"`
	PlannerProvider string `env:"PLANNER_PROVIDER" envDefault:"openai" validate:"oneof=openai anthropic"`
	PlannerModel    string `env:"PLANNER_MODEL" envDefault:"gpt-4o" validate:"required"`
	WriterProvider  string `env:"WRITER_PROVIDER" envDefault:"openai" validate:"oneof=openai anthropic"`
	WriterModel     string `env:"WRITER_MODEL" envDefault:"gpt-4o" validate:"required"`
	MaxSearchDepth  int    `env:"MAX_SEARCH_DEPTH" envDefault:"1" validate:"min=1,max=5"`
	NumberOfQueries int    `env:"NUMBER_OF_QUERIES" envDefault:"2" validate:"min=1,max=5"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" validate:"omitempty,url"`

	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error none off"`
	ReportDir      string   `env:"REPORT_DIR" envDefault:"."`
	InputDirs      []string `env:"INPUT_DIRS" envSeparator:":"`
	HistoryBackend string   `env:"HISTORY_BACKEND" envDefault:"memory" validate:"oneof=none memory sqlite redis postgres"`
	HistoryDSN     string   `env:"HISTORY_DSN"`
	Tracing        bool     `env:"LANGSMITH_TRACING" envDefault:"true"`

	secrets map[string]string
}

// LoadOptions controls Load.
type LoadOptions struct {
	EnvFile     string
	ExampleFile string
	// Out receives notices about the credential file. Nil discards them.
	Out io.Writer
	// Environ replaces os.Environ, for tests.
	Environ []string
}

// Load reads the credential file and environment into a validated Config. A missing .env is
// created from .env.example when one exists. Credentials are captured but not checked; call
// ValidateCredentials before contacting any provider.
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile == "" {
		opts.EnvFile = DefaultEnvFile
	}
	if opts.ExampleFile == "" {
		opts.ExampleFile = DefaultExampleFile
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}

	vars := environMap(environ)
	fileVars, err := readEnvFile(opts.EnvFile, opts.ExampleFile, out)
	if err != nil {
		return nil, err
	}
	// Process environment wins over the file.
	for k, v := range fileVars {
		if _, set := vars[k]; !set {
			vars[k] = v
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.secrets = make(map[string]string)
	for _, name := range []string{OpenAIKey, AnthropicKey, TavilyKey, BraveKey, LangChainKey} {
		if v, ok := vars[name]; ok {
			cfg.secrets[name] = strings.TrimSpace(v)
		}
	}
	return cfg, nil
}

func readEnvFile(path, example string, out io.Writer) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Warning: %s file not found. Creating from %s if available...\n", path, example)
		data, exErr := os.ReadFile(example)
		if exErr != nil {
			fmt.Fprintf(out, "No %s file found. Please create a %s file with your API keys.\n", example, path)
			return map[string]string{}, nil
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return nil, fmt.Errorf("create %s from %s: %w", path, example, err)
		}
		fmt.Fprintf(out, "Created %s file from %s. Please edit with your actual API keys.\n", path, example)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}

func environMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

var validate = validator.New()

// Validate checks the non-secret settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// RequiredKeys lists the credentials the selected providers need, in a stable order.
func (c *Config) RequiredKeys() []string {
	var keys []string
	add := func(k string) {
		for _, existing := range keys {
			if existing == k {
				return
			}
		}
		keys = append(keys, k)
	}
	add(providerKeys[c.PlannerProvider])
	add(providerKeys[c.WriterProvider])
	add(providerKeys[c.SearchAPI])
	if c.Tracing {
		add(LangChainKey)
	}
	return keys
}

// Secret returns the named credential, or "" when it is unset.
func (c *Config) Secret(name string) string {
	return c.secrets[name]
}

// SetSecret overrides a credential.
func (c *Config) SetSecret(name, value string) {
	if c.secrets == nil {
		c.secrets = make(map[string]string)
	}
	c.secrets[name] = value
}

// MissingCredentialsError lists required credentials that are unset or still placeholders.
type MissingCredentialsError struct {
	Names    []string
	Required []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("missing or invalid API keys: %s", strings.Join(e.Names, ", "))
}

// ValidateCredentials returns a *MissingCredentialsError when any required credential is
// empty or starts with the "your_" placeholder prefix.
func (c *Config) ValidateCredentials() error {
	required := c.RequiredKeys()
	var missing []string
	for _, name := range required {
		v := c.Secret(name)
		if v == "" || strings.HasPrefix(v, placeholderPrefix) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingCredentialsError{Names: missing, Required: required}
	}
	return nil
}
