// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the structured zap logger used across livechat and
// the error sink that records failed completions.
//
// The TUI owns the terminal, so interactive commands log to a file;
// one-shot commands log to stderr.
package logging
