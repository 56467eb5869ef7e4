// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// =============================================================================
// GEMINI CLIENT
// =============================================================================

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-1.5-flash"

const providerGemini = "gemini"

// contentGenerator is the subset of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Options Options
}

// GeminiClient generates replies with Google Gemini.
type GeminiClient struct {
	models contentGenerator
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiClient creates a Gemini client. An API key is required.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set LIVECHAT_API_KEY or gemini.api_key)")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGeminiClient(client.Models, cfg.Model, cfg.Options), nil
}

func newGeminiClient(models contentGenerator, model string, opts Options) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		models: models,
		model:  model,
		config: buildConfig(opts),
	}
}

// Model returns the model name requests are sent to.
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends prompt as a single user turn.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", &Error{Provider: providerGemini, Kind: KindMalformed, Message: "no candidates returned"}
	}

	text := resp.Text()
	if text == "" {
		return "", &Error{Provider: providerGemini, Kind: KindMalformed, Message: "empty response text"}
	}
	return text, nil
}

// buildConfig maps Options onto the SDK request config.
func buildConfig(opts Options) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		CandidateCount:  int32(opts.CandidateCount),
		StopSequences:   append([]string(nil), opts.StopSequences...),
		MaxOutputTokens: int32(opts.MaxOutputTokens),
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		TopP:            genai.Ptr(float32(opts.TopP)),
		TopK:            genai.Ptr(float32(opts.TopK)),
	}
}

func classifyGeminiError(err error) error {
	if isContextErr(err) {
		return &Error{Provider: providerGemini, Kind: KindNetwork, Message: "request did not complete", Cause: err}
	}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return &Error{Provider: providerGemini, Kind: KindNetwork, Message: "request failed", Cause: err}
	}

	msg := apiErr.Message
	if msg == "" {
		msg = apiErr.Status
	}
	return &Error{Provider: providerGemini, Kind: kindFromStatus(apiErr.Code), Message: msg, Cause: err}
}
