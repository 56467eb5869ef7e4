// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/livechat/internal/ui/styles"
)

// =============================================================================
// LOADING INDICATOR
// =============================================================================

// DotFrames animates three dots appearing in turn.
var DotFrames = []string{".  ", ".. ", "...", " ..", "  .", "   "}

// LoadingIndicator shows three animated dots while a reply is pending.
type LoadingIndicator struct {
	spinner   spinner.Model
	theme     *styles.Theme
	startTime time.Time
	isActive  bool
}

// NewLoadingIndicator creates an inactive indicator.
func NewLoadingIndicator(theme *styles.Theme) LoadingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: DotFrames,
		FPS:    time.Second / 6,
	}
	return LoadingIndicator{spinner: s, theme: theme}
}

// Start activates the indicator and returns the first tick.
// Starting an active indicator returns nil so only one tick loop runs.
func (l *LoadingIndicator) Start() tea.Cmd {
	if l.isActive {
		return nil
	}
	l.isActive = true
	l.startTime = time.Now()
	return l.spinner.Tick
}

// Stop deactivates the indicator. Pending ticks are dropped by Update.
func (l *LoadingIndicator) Stop() {
	l.isActive = false
}

// IsActive returns whether the indicator is running.
func (l *LoadingIndicator) IsActive() bool {
	return l.isActive
}

// Elapsed returns the time since Start, or zero when inactive.
func (l *LoadingIndicator) Elapsed() time.Duration {
	if !l.isActive {
		return 0
	}
	return time.Since(l.startTime)
}

// Update advances the animation.
func (l LoadingIndicator) Update(msg tea.Msg) (LoadingIndicator, tea.Cmd) {
	if !l.isActive {
		return l, nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the dots, or nothing when inactive.
func (l LoadingIndicator) View() string {
	if !l.isActive {
		return ""
	}
	return l.theme.Loading.Render(l.spinner.View())
}
