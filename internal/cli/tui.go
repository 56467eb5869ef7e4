// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/livechat/internal/ui/chat"
	"github.com/jeranaias/livechat/internal/ui/styles"
)

// ErrNoTerminal is returned when the interactive interface cannot start.
var ErrNoTerminal = errors.New("the interactive interface needs a terminal; use 'livechat ask' for piped input")

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Start the interactive terminal interface",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLog: "file"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	if !IsTTY() || !IsStdoutTTY() {
		return ErrNoTerminal
	}

	ctx := cmd.Context()
	a, err := opts.newApp(ctx)
	if err != nil {
		return err
	}

	m := chat.New(a.ctrl, styles.NewTheme(a.cfg.UI.Theme), chat.Config{
		Title:       a.cfg.UI.Title,
		Subtitle:    a.cfg.UI.Subtitle,
		ModelName:   a.cfg.Model(),
		SidebarOpen: a.cfg.UI.SidebarOpen,
		Context:     ctx,
	})

	a.logger.Info("Starting interface")
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
