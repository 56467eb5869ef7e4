// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/jeranaias/livechat/internal/config"
	"github.com/jeranaias/livechat/internal/ollama"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = cfg
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 1, opts.CandidateCount)
	assert.Equal(t, []string{"red"}, opts.StopSequences)
	assert.Equal(t, 200, opts.MaxOutputTokens)
	assert.Equal(t, 1.0, opts.Temperature)
	assert.Equal(t, 0.1, opts.TopP)
	assert.Equal(t, 16, opts.TopK)
}

func TestOptionsFromConfig_MatchesDefaults(t *testing.T) {
	assert.Equal(t, DefaultOptions(), OptionsFromConfig(config.Default().Generation))
}

func TestBuildConfig(t *testing.T) {
	cfg := buildConfig(DefaultOptions())

	assert.Equal(t, int32(1), cfg.CandidateCount)
	assert.Equal(t, []string{"red"}, cfg.StopSequences)
	assert.Equal(t, int32(200), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	require.NotNil(t, cfg.TopP)
	require.NotNil(t, cfg.TopK)
	assert.Equal(t, float32(1.0), *cfg.Temperature)
	assert.Equal(t, float32(0.1), *cfg.TopP)
	assert.Equal(t, float32(16), *cfg.TopK)
}

func TestBuildConfig_DoesNotAliasStopSequences(t *testing.T) {
	opts := DefaultOptions()
	cfg := buildConfig(opts)
	opts.StopSequences[0] = "blue"
	assert.Equal(t, "red", cfg.StopSequences[0])
}

// =============================================================================
// GEMINI
// =============================================================================

func TestGeminiClient_Generate(t *testing.T) {
	fake := &fakeModels{resp: textResponse("world")}
	c := newGeminiClient(fake, "", DefaultOptions())

	got, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", got)
	assert.Equal(t, DefaultGeminiModel, fake.gotModel)
	require.Len(t, fake.gotContents, 1)
	require.Len(t, fake.gotContents[0].Parts, 1)
	assert.Equal(t, "hello", fake.gotContents[0].Parts[0].Text)
	assert.Same(t, c.config, fake.gotConfig)
}

func TestGeminiClient_Malformed(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"empty text", textResponse("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newGeminiClient(&fakeModels{resp: tt.resp}, "m", DefaultOptions())
			_, err := c.Generate(context.Background(), "hello")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCompletion)
			assert.Equal(t, KindMalformed, KindOf(err))
		})
	}
}

func TestGeminiClient_APIErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"unauthorized", genai.APIError{Code: 401, Message: "bad key"}, KindAuth},
		{"forbidden", genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}, KindAuth},
		{"quota", fmt.Errorf("wrapped: %w", genai.APIError{Code: 429, Message: "slow down"}), KindQuota},
		{"server", genai.APIError{Code: 503, Message: "unavailable"}, KindNetwork},
		{"bad request", genai.APIError{Code: 400, Message: "nope"}, KindUnknown},
		{"deadline", context.DeadlineExceeded, KindNetwork},
		{"transport", errors.New("dial tcp: connection refused"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newGeminiClient(&fakeModels{err: tt.err}, "m", DefaultOptions())
			_, err := c.Generate(context.Background(), "hello")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCompletion)
			assert.Equal(t, tt.want, KindOf(err))
			assert.NotNil(t, errors.Unwrap(err), "cause must be preserved")
		})
	}
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{})
	require.Error(t, err)
}

// =============================================================================
// OLLAMA
// =============================================================================

func TestOllamaClient_Generate(t *testing.T) {
	var got ollama.GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ollama.GenerateResponse{Response: "world", Done: true})
	}))
	defer srv.Close()

	c := NewOllamaClient(ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: srv.URL}), "llama3.2", DefaultOptions())
	reply, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", reply)

	assert.Equal(t, "llama3.2", got.Model)
	assert.Equal(t, "hello", got.Prompt)
	require.NotNil(t, got.Options)
	assert.Equal(t, 200, got.Options.NumPredict)
	assert.Equal(t, 16, got.Options.TopK)
	assert.Equal(t, []string{"red"}, got.Options.Stop)
}

func TestOllamaClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"empty reply", http.StatusOK, `{"response":"","done":true}`, KindMalformed},
		{"garbage", http.StatusOK, `not json`, KindMalformed},
		{"quota", http.StatusTooManyRequests, `{"error":"busy"}`, KindQuota},
		{"auth", http.StatusUnauthorized, `{"error":"no"}`, KindAuth},
		{"missing model", http.StatusNotFound, `{"error":"model not found"}`, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewOllamaClient(ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: srv.URL}), "m", DefaultOptions())
			_, err := c.Generate(context.Background(), "hello")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCompletion)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestOllamaClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewOllamaClient(ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: url}), "m", DefaultOptions())
	_, err := c.Generate(context.Background(), "hello")
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestOllamaClient_Check(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	var c Client = NewOllamaClient(ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: srv.URL}), "m", DefaultOptions())
	checker, ok := c.(Checker)
	require.True(t, ok)
	assert.NoError(t, checker.Check(context.Background()))

	srv.Close()
	assert.Equal(t, KindNetwork, KindOf(checker.Check(context.Background())))
}

// =============================================================================
// FACTORY & ERRORS
// =============================================================================

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = config.ProviderOllama
	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, c)

	cfg.Provider = config.ProviderGemini
	cfg.Gemini.APIKey = ""
	_, err = New(context.Background(), cfg)
	require.Error(t, err, "gemini without a key must fail")

	cfg.Provider = "carrier-pigeon"
	_, err = New(context.Background(), cfg)
	require.Error(t, err)
}

func TestError_Message(t *testing.T) {
	err := &Error{Provider: "gemini", Kind: KindQuota, Message: "slow down", Cause: errors.New("429")}
	assert.Equal(t, "gemini quota error: slow down: 429", err.Error())
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestClientFunc(t *testing.T) {
	var c Client = ClientFunc(func(ctx context.Context, prompt string) (string, error) {
		return prompt + "!", nil
	})
	got, err := c.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", got)
}
