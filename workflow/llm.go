package workflow

import (
	"fmt"

	"github.com/jemygraw/deepresearch/config"
	"github.com/jemygraw/deepresearch/log"
	"github.com/jemygraw/deepresearch/search"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel creates the chat model for provider ("openai" or "anthropic") with credentials from
// cfg.
func NewModel(cfg *config.Config, provider, model string) (llms.Model, error) {
	switch provider {
	case "openai":
		opts := []openai.Option{
			openai.WithModel(model),
			openai.WithToken(cfg.Secret(config.OpenAIKey)),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai model %s: %w", model, err)
		}
		return llm, nil
	case "anthropic":
		llm, err := anthropic.New(
			anthropic.WithModel(model),
			anthropic.WithToken(cfg.Secret(config.AnthropicKey)),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model %s: %w", model, err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q", provider)
	}
}

// NewDeps builds the planner and writer models and the searcher selected by cfg.
func NewDeps(cfg *config.Config, logger log.Logger) (Deps, error) {
	planner, err := NewModel(cfg, cfg.PlannerProvider, cfg.PlannerModel)
	if err != nil {
		return Deps{}, fmt.Errorf("planner: %w", err)
	}
	writer, err := NewModel(cfg, cfg.WriterProvider, cfg.WriterModel)
	if err != nil {
		return Deps{}, fmt.Errorf("writer: %w", err)
	}
	searcher, err := search.FromConfig(cfg)
	if err != nil {
		return Deps{}, err
	}
	return Deps{Planner: planner, Writer: writer, Searcher: searcher, Logger: logger}, nil
}

// SettingsFromConfig returns the configuration bundle for a run on threadID.
func SettingsFromConfig(cfg *config.Config, threadID string) Settings {
	return Settings{
		ThreadID:        threadID,
		SearchAPI:       cfg.SearchAPI,
		PlannerProvider: cfg.PlannerProvider,
		PlannerModel:    cfg.PlannerModel,
		WriterProvider:  cfg.WriterProvider,
		WriterModel:     cfg.WriterModel,
		MaxSearchDepth:  cfg.MaxSearchDepth,
		NumberOfQueries: cfg.NumberOfQueries,
	}
}
