// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case completionMsg:
		return m.handleCompletion(msg)

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Clipboard unavailable: " + msg.err.Error()
		} else {
			m.notice = "Copied last reply"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewChat):
		m.ctrl.StartNewChat()
		m.input.Reset()
		m.loading.Stop()
		m.lastErr = nil
		m.notice = ""
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.CopyReply):
		return m, m.copyLastReply()

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen {
			m.focusInput()
		}
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.FocusSidebar):
		if m.sidebar.Focused() {
			m.focusInput()
		} else if m.showSidebar() {
			m.sidebar.SetFocused(true)
			m.input.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.sidebar.Focused() {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveDown()
	case key.Matches(msg, m.keys.Submit):
		if id, ok := m.sidebar.Selected(); ok {
			m.ctrl.SelectChat(id)
		}
		m.focusInput()
		m.refresh()
	case key.Matches(msg, m.keys.Back):
		m.focusInput()
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetDraft(m.input.Value())
	return m, cmd
}

// submit starts a send. Blank input is ignored and left in place.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, ok := m.ctrl.Begin(m.input.Value())
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.lastErr = nil
	m.notice = ""
	m.refresh()

	tick := m.loading.Start()
	return m, tea.Batch(resolveCmd(m.ctx, m.ctrl, req), tick)
}

func (m Model) handleCompletion(msg completionMsg) (tea.Model, tea.Cmd) {
	m.ctrl.Apply(msg.result)
	if msg.result.Err != nil {
		m.lastErr = msg.result.Err
	}
	if !m.ctrl.IsLoading() {
		m.loading.Stop()
	}
	m.refresh()
	return m, nil
}

// copyLastReply copies the newest assistant message of the current chat.
func (m *Model) copyLastReply() tea.Cmd {
	v := m.ctrl.View()
	for i := len(v.Current.Messages) - 1; i >= 0; i-- {
		if msg := v.Current.Messages[i]; !msg.IsUser() {
			return copyCmd(msg.Content)
		}
	}
	m.notice = "Nothing to copy yet"
	return nil
}

func (m *Model) focusInput() {
	m.sidebar.SetFocused(false)
	m.input.Focus()
}
