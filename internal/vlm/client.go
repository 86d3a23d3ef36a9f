// Package vlm wires the hosted vision-language model behind a small
// generate-only interface. Credentials, model id and sampling
// parameters come from config; the core never hardcodes them.
package vlm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/ayeco/segnalago/config"
)

// Generator is the slice of the eino chat model surface the pipeline
// needs: one synchronous completion over role-tagged messages.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// ModelCallError wraps a transport, auth or rate-limit failure from
// the model client. Callers recover by leaving their state unchanged
// and offering a retry.
type ModelCallError struct {
	Err error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// New builds the chat model for the configured provider. The openai
// provider speaks any OpenAI-compatible endpoint and supports image
// parts; deepseek is text-only and suited to the general chat.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		maxTokens := cfg.MaxTokens
		temperature := float32(cfg.Temperature)
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return chatModel, nil
	case config.ProviderDeepSeek:
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek model: %w", err)
		}
		return chatModel, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}
