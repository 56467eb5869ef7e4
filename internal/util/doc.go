// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small string and file helpers shared by livechat.
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth / PadRight: display-width aware layout for terminal cells
//   - SingleLine, IsBlank: whitespace normalization
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
