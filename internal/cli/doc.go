// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the livechat command line.
//
// # Commands
//
//	livechat              start the terminal interface (same as "tui")
//	livechat tui          start the terminal interface
//	livechat chat         line-based REPL with slash commands
//	livechat ask PROMPT   send one prompt and print the reply
//	livechat config show  print the effective configuration
//	livechat config path  print the config file location
//	livechat config init  write a default config file
//	livechat status       check that the provider is reachable
//	livechat version      print version information
//
// # Global Flags
//
//	--config PATH    config file (default ~/.livechat/config.toml)
//	--provider NAME  gemini or ollama
//	--model NAME     model for the selected provider
//	-v, --verbose    debug logging
package cli
