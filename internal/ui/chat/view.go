// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/livechat/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.loadingView(),
	)

	body := main
	if m.showSidebar() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
	}

	input := m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		input,
		m.footerView(),
	)
}

func (m Model) loadingView() string {
	if !m.loading.IsActive() {
		return ""
	}
	line := "  " + m.loading.View()
	if e := m.loading.Elapsed(); e >= time.Second {
		line += " " + m.theme.Timestamp.Render(fmt.Sprintf("%ds", int(e.Seconds())))
	}
	return line
}

func (m Model) footerView() string {
	if m.lastErr != nil {
		msg := "Could not get a reply: " + m.lastErr.Error()
		return m.theme.ErrorText.Render(util.TruncateWidth(util.SingleLine(msg), m.width))
	}

	if m.notice != "" {
		return m.theme.StatusBar.MaxWidth(m.width).Render(m.notice)
	}

	bindings := m.keys.ShortHelp()
	if m.sidebar.Focused() {
		bindings = m.keys.SidebarHelp()
	}
	return m.theme.StatusBar.MaxWidth(m.width).Render(helpLine(m, bindings))
}

func helpLine(m Model, bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, m.theme.HelpKey.Render(h.Key)+" "+m.theme.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
