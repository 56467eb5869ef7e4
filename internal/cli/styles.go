// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/livechat/internal/ui/styles"
)

// Shared styles for CLI output.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	currentStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
)
