// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/livechat/internal/config"
	"github.com/jeranaias/livechat/internal/ollama"
)

// New builds the Client selected by cfg.Provider.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	opts := OptionsFromConfig(cfg.Generation)

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Options: opts,
		})
	case config.ProviderOllama:
		client := ollama.NewClientWithConfig(&ollama.ClientConfig{
			BaseURL:      cfg.Ollama.URL,
			Timeout:      cfg.Request.Timeout(),
			DefaultModel: cfg.Ollama.Model,
		})
		return NewOllamaClient(client, cfg.Ollama.Model, opts), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
