// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for livechat.
//
// Configuration is a TOML file with sensible defaults, environment variable
// overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GeminiConfig, OllamaConfig: Completion provider settings
//   - GenerationConfig: Generation parameters forwarded to the provider
//   - SessionConfig: Chat store behavior (archive policy)
//
// # Configuration Precedence
//
// Configuration is resolved in this order, later sources winning:
//   - Built-in defaults
//   - ~/.livechat/config.toml (or the path given with --config)
//   - Environment variables (LIVECHAT_*, GEMINI_API_KEY, GOOGLE_API_KEY)
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Request.Timeout()
package config
