// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SidebarWidth is the fixed width of the chat list, borders included.
const SidebarWidth = 28

// Theme holds every style used by the chat view.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar         lipgloss.Style
	SidebarFocused  lipgloss.Style
	SidebarSection  lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarCurrent  lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarPreview  lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SenderLabel     lipgloss.Style
	Timestamp       lipgloss.Style
	EmptyState      lipgloss.Style
	Loading         lipgloss.Style

	// ==========================================================================
	// INPUT & STATUS
	// ==========================================================================

	InputContainer lipgloss.Style
	StatusBar      lipgloss.Style
	ErrorText      lipgloss.Style
	HelpKey        lipgloss.Style
	HelpDesc       lipgloss.Style
}

// NewTheme builds a theme for mode "dark", "light", or "auto".
// Auto asks the terminal for its background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(IndigoDeep).
		Foreground(TextInverse).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"})
	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#E0E7FF", Dark: "#C7D2FE"})

	t.Sidebar = lipgloss.NewStyle().
		Width(SidebarWidth-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SidebarFocused = t.Sidebar.
		BorderForeground(Cyan)
	t.SidebarSection = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		MarginTop(1)
	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.SidebarCurrent = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)
	t.SidebarSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary)
	t.SidebarPreview = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserBubble = lipgloss.NewStyle().
		Background(UserBubbleBg).
		Foreground(UserBubbleFg).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)
	t.SenderLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Loading = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)
	t.HelpKey = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth returns the maximum message width for a content area of the
// given width.
func BubbleWidth(contentWidth int) int {
	w := contentWidth * 3 / 4
	if w < 20 {
		w = contentWidth
	}
	return w
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, sidebar hidden
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
