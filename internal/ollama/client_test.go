// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test/"})
	cfg := c.Config()

	if cfg.BaseURL != "http://example.test" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.DefaultModel != "llama3.2" {
		t.Errorf("DefaultModel = %q, want llama3.2", cfg.DefaultModel)
	}

	if NewClientWithConfig(nil).Config().BaseURL != DefaultConfig().BaseURL {
		t.Error("nil config should fall back to defaults")
	}
}

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	if err := c.CheckRunning(context.Background()); err != nil {
		t.Fatalf("CheckRunning() = %v", err)
	}
}

func TestCheckRunning_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: time.Second})
	err := c.CheckRunning(context.Background())
	if !IsNotRunning(err) {
		t.Fatalf("CheckRunning() = %v, want not-running error", err)
	}
}

func TestGenerate(t *testing.T) {
	var got GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(GenerateResponse{
			Model:    got.Model,
			Response: "Hi there",
			Done:     true,
		})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, DefaultModel: "tiny"})
	resp, err := c.Generate(context.Background(), GenerateRequest{
		Prompt:  "Hello",
		Stream:  true,
		Options: &Options{Temperature: 1, TopK: 16, TopP: 0.1, NumPredict: 200, Stop: []string{"red"}},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Response != "Hi there" {
		t.Errorf("Response = %q", resp.Response)
	}
	if got.Model != "tiny" {
		t.Errorf("request model = %q, want default model", got.Model)
	}
	if got.Stream {
		t.Error("request should never stream")
	}
	if got.Options == nil || got.Options.NumPredict != 200 || got.Options.TopK != 16 {
		t.Errorf("options not forwarded: %+v", got.Options)
	}
}

func TestGenerate_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), GenerateRequest{Model: "nope", Prompt: "x"})
	if !IsModelNotFound(err) {
		t.Fatalf("Generate() = %v, want model-not-found", err)
	}
}

func TestGenerate_ServerErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "x"})

	clientErr, ok := err.(*ClientError)
	if !ok {
		t.Fatalf("error type = %T, want *ClientError", err)
	}
	if clientErr.Message != "out of memory" || clientErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected error %+v", clientErr)
	}
}

func TestGenerate_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if !hasType(err, ErrTypeInvalidResponse) {
		t.Fatalf("Generate() = %v, want invalid response", err)
	}
}

func TestGenerate_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := c.Generate(ctx, GenerateRequest{Prompt: "x"})
	if !IsTimeout(err) {
		t.Fatalf("Generate() = %v, want timeout", err)
	}
}
