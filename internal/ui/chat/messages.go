// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/livechat/internal/controller"
)

// completionMsg carries a resolved request back to the event loop.
type completionMsg struct {
	result controller.Result
}

// resolveCmd runs the completion call off the event loop.
func resolveCmd(ctx context.Context, ctrl *controller.Controller, req controller.Request) tea.Cmd {
	return func() tea.Msg {
		return completionMsg{result: ctrl.Resolve(ctx, req)}
	}
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	err error
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(text)}
	}
}
