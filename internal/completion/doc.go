// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion turns one prompt into one assistant reply.
//
// A Client hides the provider: GeminiClient talks to Google Gemini through
// google.golang.org/genai and OllamaClient talks to a local Ollama server.
// Every failure is reported as *Error, which matches ErrCompletion.
//
// # Usage
//
//	client, err := completion.New(cfg)
//	if err != nil {
//	    return err
//	}
//	reply, err := client.Generate(ctx, "Hello")
package completion
