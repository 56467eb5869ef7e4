// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/livechat/internal/model"
	"github.com/jeranaias/livechat/internal/ui/styles"
	"github.com/jeranaias/livechat/internal/util"
)

// =============================================================================
// SIDEBAR COMPONENT
// =============================================================================

// SidebarEntry is one selectable row.
type SidebarEntry struct {
	ChatID   string
	Name     string
	Preview  string
	Archived bool
}

// Sidebar lists active chats followed by the "Chat History" section.
// The cursor moves over both sections as one list.
type Sidebar struct {
	theme     *styles.Theme
	entries   []SidebarEntry
	currentID string
	cursor    int
	focused   bool
	height    int
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme}
}

// SetChats replaces the listed chats. The cursor is kept in range.
func (s *Sidebar) SetChats(active, archived []model.Chat, currentID string) {
	previewWidth := styles.SidebarWidth - 6

	s.entries = s.entries[:0]
	for _, c := range active {
		s.entries = append(s.entries, SidebarEntry{ChatID: c.ID, Name: c.Name, Preview: c.Preview(previewWidth)})
	}
	for _, c := range archived {
		s.entries = append(s.entries, SidebarEntry{ChatID: c.ID, Name: c.Name, Preview: c.Preview(previewWidth), Archived: true})
	}
	s.currentID = currentID
	s.clampCursor()
}

// Entries returns the listed rows.
func (s *Sidebar) Entries() []SidebarEntry {
	return s.entries
}

// SetHeight limits the rendered height; zero means unlimited.
func (s *Sidebar) SetHeight(h int) {
	s.height = h
}

// SetFocused toggles keyboard focus. Focusing moves the cursor to the
// current chat.
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
	if focused {
		for i, e := range s.entries {
			if e.ChatID == s.currentID && !e.Archived {
				s.cursor = i
				break
			}
		}
	}
}

// Focused reports keyboard focus.
func (s *Sidebar) Focused() bool {
	return s.focused
}

// Cursor returns the highlighted row index.
func (s *Sidebar) Cursor() int {
	return s.cursor
}

// MoveUp moves the cursor up one row.
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor down one row.
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.entries)-1 {
		s.cursor++
	}
}

// Selected returns the chat id under the cursor.
func (s *Sidebar) Selected() (string, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[s.cursor].ChatID, true
}

func (s *Sidebar) clampCursor() {
	if s.cursor >= len(s.entries) {
		s.cursor = len(s.entries) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// View renders the sidebar box.
func (s *Sidebar) View() string {
	width := styles.SidebarWidth - 4
	var lines []string

	lines = append(lines, s.theme.SidebarSection.UnsetMarginTop().Render("Chats"))
	historyShown := false
	for i, e := range s.entries {
		if e.Archived && !historyShown {
			lines = append(lines, s.theme.SidebarSection.Render("Chat History"))
			historyShown = true
		}
		lines = append(lines, s.row(i, e, width)...)
	}
	if !historyShown {
		lines = append(lines,
			s.theme.SidebarSection.Render("Chat History"),
			s.theme.SidebarPreview.Render("Nothing archived yet"))
	}

	if s.height > 2 && len(lines) > s.height-2 {
		lines = lines[:s.height-2]
	}

	box := s.theme.Sidebar
	if s.focused {
		box = s.theme.SidebarFocused
	}
	if s.height > 2 {
		box = box.Height(s.height - 2)
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (s *Sidebar) row(i int, e SidebarEntry, width int) []string {
	marker := "  "
	if e.ChatID == s.currentID && !e.Archived {
		marker = "> "
	}
	name := marker + util.TruncateWidth(e.Name, width-2)

	style := s.theme.SidebarItem
	if e.ChatID == s.currentID && !e.Archived {
		style = s.theme.SidebarCurrent
	}
	if s.focused && i == s.cursor {
		style = s.theme.SidebarSelected.Width(width)
	}

	return []string{
		style.Render(name),
		s.theme.SidebarPreview.Render("  " + util.TruncateWidth(e.Preview, width-2)),
	}
}
