// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/livechat/internal/controller"
	"github.com/jeranaias/livechat/internal/ui/components"
	"github.com/jeranaias/livechat/internal/ui/styles"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config carries the presentation settings for the chat view.
type Config struct {
	Title       string
	Subtitle    string
	ModelName   string
	SidebarOpen bool

	// Context bounds completion calls issued from the view.
	Context context.Context
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	ctrl  *controller.Controller
	ctx   context.Context
	theme *styles.Theme
	keys  KeyMap

	header   *components.Header
	sidebar  *components.Sidebar
	renderer *components.MessageRenderer
	loading  components.LoadingIndicator
	input    textinput.Model
	viewport viewport.Model

	sidebarOpen bool
	width       int
	height      int
	ready       bool
	lastErr     error
	notice      string

	// timeline cache
	renderedChat  string
	renderedCount int
	renderedWidth int
}

// New creates the chat model over ctrl.
func New(ctrl *controller.Controller, theme *styles.Theme, cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = 4000
	input.SetValue(ctrl.Draft())
	input.Focus()

	header := components.NewHeader(theme, cfg.Title, cfg.Subtitle)
	header.SetModel(cfg.ModelName)

	m := Model{
		ctrl:        ctrl,
		ctx:         ctx,
		theme:       theme,
		keys:        DefaultKeyMap(),
		header:      header,
		sidebar:     components.NewSidebar(theme),
		renderer:    components.NewMessageRenderer(theme),
		loading:     components.NewLoadingIndicator(theme),
		input:       input,
		viewport:    viewport.New(80, 20),
		sidebarOpen: cfg.SidebarOpen,
	}
	m.refresh()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Controller returns the underlying controller.
func (m Model) Controller() *controller.Controller {
	return m.ctrl
}

// SidebarOpen reports whether the sidebar is shown.
func (m Model) SidebarOpen() bool {
	return m.sidebarOpen
}

// SidebarFocused reports whether the sidebar has keyboard focus.
func (m Model) SidebarFocused() bool {
	return m.sidebar.Focused()
}

// LastError returns the most recent completion failure shown in the footer.
func (m Model) LastError() error {
	return m.lastErr
}

// InputValue returns the text currently in the input.
func (m Model) InputValue() string {
	return m.input.Value()
}

// =============================================================================
// LAYOUT
// =============================================================================

const (
	headerHeight = 1
	inputHeight  = 3
	footerHeight = 1
	loadingLine  = 1
)

func (m Model) showSidebar() bool {
	return m.sidebarOpen && m.theme.GetLayoutMode() != styles.LayoutNarrow
}

func (m Model) contentWidth() int {
	w := m.width
	if m.showSidebar() {
		w -= styles.SidebarWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) bodyHeight() int {
	h := m.height - headerHeight - inputHeight - footerHeight
	if h < 3 {
		h = 3
	}
	return h
}

// resize recomputes component sizes after a window or sidebar change.
func (m *Model) resize() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.sidebar.SetHeight(m.bodyHeight())

	m.viewport.Width = m.contentWidth()
	m.viewport.Height = m.bodyHeight() - loadingLine
	m.input.Width = m.width - 6

	m.renderedWidth = -1
	m.refresh()
}

// refresh re-reads the controller snapshot into the sidebar and timeline.
func (m *Model) refresh() {
	v := m.ctrl.View()
	m.sidebar.SetChats(v.Active, v.Archived, v.Current.ID)

	if !v.HasCurrent {
		m.viewport.SetContent(m.theme.EmptyState.Render("No chat selected"))
		return
	}

	width := m.viewport.Width
	n := len(v.Current.Messages)
	if v.Current.ID == m.renderedChat && n == m.renderedCount && width == m.renderedWidth {
		return
	}

	if n == 0 {
		m.viewport.SetContent(m.theme.EmptyState.Render("Start the conversation by typing below."))
	} else {
		m.viewport.SetContent(m.renderer.RenderAll(v.Current.Messages, width-1))
	}
	m.viewport.GotoBottom()

	m.renderedChat = v.Current.ID
	m.renderedCount = n
	m.renderedWidth = width
}
