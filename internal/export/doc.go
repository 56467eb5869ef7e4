// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat transcript to a file.
//
// Two formats are supported:
//
//   - Markdown: a readable transcript with an optional front matter block
//   - JSON: the chat value as stored in memory
//
// Exports are one-way. Nothing in livechat reads them back.
//
// Usage:
//
//	path, err := export.ExportToFile(chat, export.NewMarkdownExporter(nil), nil)
package export
