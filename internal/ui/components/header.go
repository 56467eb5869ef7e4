// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/livechat/internal/ui/styles"
	"github.com/jeranaias/livechat/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the one-line title bar.
type Header struct {
	Title     string
	Subtitle  string
	ModelName string
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a header with the given title and subtitle.
func NewHeader(theme *styles.Theme, title, subtitle string) *Header {
	return &Header{
		Title:    title,
		Subtitle: subtitle,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the model name shown on the right.
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// View renders the header across the full width.
func (h *Header) View() string {
	left := h.theme.HeaderTitle.Render(h.Title)
	if h.Subtitle != "" && h.theme.GetLayoutMode() != styles.LayoutNarrow {
		left += "  " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	right := ""
	if h.ModelName != "" {
		right = h.theme.HeaderSubtitle.Render(h.ModelName)
	}

	inner := h.Width - 2
	if inner < 1 {
		inner = 1
	}
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = inner - lipgloss.Width(left)
		if gap < 0 {
			left = util.TruncateWidth(h.Title, inner)
			gap = 0
		}
	}

	return h.theme.Header.Width(h.Width).Render(left + strings.Repeat(" ", gap) + right)
}
