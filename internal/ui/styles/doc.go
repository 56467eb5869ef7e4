// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the livechat TUI.
//
// All colors use Lip Gloss AdaptiveColor for automatic light/dark
// detection. NewTheme resolves the terminal capabilities once through
// termenv and builds every style the chat view needs.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	theme.SetSize(width, height)
//	header := theme.HeaderTitle.Render("Watsonx Assistant")
package styles
