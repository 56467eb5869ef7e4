// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// ErrEmptyPrompt is returned when ask has nothing to send.
var ErrEmptyPrompt = errors.New("prompt is empty")

func newAskCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [PROMPT...]",
		Short: "Send one prompt and print the reply",
		Long: `Send one prompt in a fresh chat and print the reply.

With no arguments the prompt is read from standard input:

  echo "Explain TCP slow start" | livechat ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if prompt == "" && !IsTTY() {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read prompt: %w", err)
				}
				prompt = string(data)
			}
			return runAsk(cmd, opts, prompt, IsStdoutTTY())
		},
	}
}

func runAsk(cmd *cobra.Command, opts *rootOptions, prompt string, tty bool) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}

	a, err := opts.newApp(cmd.Context())
	if err != nil {
		return err
	}

	a.ctrl.SendMessage(cmd.Context(), prompt)
	if err := a.sink.Last(); err != nil {
		return err
	}

	chat, _ := a.ctrl.Store().CurrentChat()
	last, ok := chat.LastMessage()
	if !ok || last.IsUser() {
		return errors.New("no reply received")
	}

	displayResponse(cmd.OutOrStdout(), last.Content, tty)
	return nil
}
