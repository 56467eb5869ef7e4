// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for a local Ollama server.
//
// Only the non-streaming /api/generate endpoint and the health check are
// implemented; livechat renders each reply as a whole.
//
// # Usage
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
//	    BaseURL: "http://127.0.0.1:11434",
//	})
//	resp, err := client.Generate(ctx, ollama.GenerateRequest{
//	    Model:  "llama3.2",
//	    Prompt: "Hello",
//	})
package ollama
