// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/livechat/internal/model"
	"github.com/jeranaias/livechat/internal/ui/styles"
	"github.com/jeranaias/livechat/internal/util"
)

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

// MessageRenderer draws chat messages: user bubbles on the right and
// assistant bubbles, rendered as markdown, on the left.
type MessageRenderer struct {
	theme *styles.Theme

	md      *glamour.TermRenderer
	mdWidth int
}

// NewMessageRenderer creates a renderer for theme.
func NewMessageRenderer(theme *styles.Theme) *MessageRenderer {
	return &MessageRenderer{theme: theme}
}

// Render draws msg within width columns.
func (r *MessageRenderer) Render(msg model.Message, width int) string {
	bw := styles.BubbleWidth(width)

	label := r.theme.SenderLabel.Render(msg.Sender.DisplayName()) + " " +
		r.theme.Timestamp.Render(msg.Clock())

	if msg.IsUser() {
		content := msg.Content
		inner := util.StringWidth(widestLine(content)) + 2
		if inner > bw {
			inner = bw
		}
		bubble := r.theme.UserBubble.Width(inner).Render(content)
		block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	body := r.markdown(msg.Content, bw-4)
	bubble := r.theme.AssistantBubble.Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// RenderAll draws messages separated by blank lines.
func (r *MessageRenderer) RenderAll(msgs []model.Message, width int) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = r.Render(m, width)
	}
	return strings.Join(parts, "\n\n")
}

// markdown renders content with glamour, falling back to the raw text.
func (r *MessageRenderer) markdown(content string, wrap int) string {
	if wrap < 10 {
		wrap = 10
	}
	if r.md == nil || r.mdWidth != wrap {
		style := "light"
		if r.theme.IsDark {
			style = "dark"
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return content
		}
		r.md = md
		r.mdWidth = wrap
	}

	out, err := r.md.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func widestLine(s string) string {
	widest := ""
	for _, line := range strings.Split(s, "\n") {
		if util.StringWidth(line) > util.StringWidth(widest) {
			widest = line
		}
	}
	return widest
}
