// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"errors"

	"github.com/jeranaias/livechat/internal/ollama"
)

const providerOllama = "ollama"

// OllamaClient generates replies with a local Ollama server.
// CandidateCount has no Ollama equivalent and is ignored.
type OllamaClient struct {
	client  *ollama.Client
	model   string
	options *ollama.Options
}

// NewOllamaClient wraps an Ollama HTTP client.
func NewOllamaClient(client *ollama.Client, model string, opts Options) *OllamaClient {
	return &OllamaClient{
		client:  client,
		model:   model,
		options: ollamaOptions(opts),
	}
}

// Generate sends prompt to /api/generate.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Generate(ctx, ollama.GenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Options: c.options,
	})
	if err != nil {
		return "", classifyOllamaError(err)
	}
	if resp.Response == "" {
		return "", &Error{Provider: providerOllama, Kind: KindMalformed, Message: "empty response text"}
	}
	return resp.Response, nil
}

// Check reports whether the Ollama server is reachable.
func (c *OllamaClient) Check(ctx context.Context) error {
	if err := c.client.CheckRunning(ctx); err != nil {
		return classifyOllamaError(err)
	}
	return nil
}

func ollamaOptions(opts Options) *ollama.Options {
	return &ollama.Options{
		Temperature: opts.Temperature,
		TopK:        opts.TopK,
		TopP:        opts.TopP,
		NumPredict:  opts.MaxOutputTokens,
		Stop:        append([]string(nil), opts.StopSequences...),
	}
}

func classifyOllamaError(err error) error {
	switch {
	case isContextErr(err), ollama.IsTimeout(err), ollama.IsNotRunning(err):
		return &Error{Provider: providerOllama, Kind: KindNetwork, Message: "server unreachable", Cause: err}
	case ollama.IsModelNotFound(err):
		return &Error{Provider: providerOllama, Kind: KindUnknown, Message: "model not found", Cause: err}
	}

	var clientErr *ollama.ClientError
	if errors.As(err, &clientErr) {
		kind := kindFromStatus(clientErr.StatusCode)
		if clientErr.Type == ollama.ErrTypeInvalidResponse && clientErr.StatusCode == 0 {
			kind = KindMalformed
		}
		return &Error{Provider: providerOllama, Kind: kind, Message: clientErr.Message, Cause: err}
	}
	return &Error{Provider: providerOllama, Kind: KindUnknown, Message: "request failed", Cause: err}
}
