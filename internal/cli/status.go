// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/livechat/internal/completion"
	"github.com/jeranaias/livechat/internal/config"
)

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the configured provider is usable",
		Long: `Build the configured completion client and, where the provider
supports it, probe the backend without sending a prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}
}

func runStatus(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	cfg := opts.cfg

	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Provider:"), cfg.Provider)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Model:   "), cfg.Model())
	if strings.EqualFold(cfg.Provider, config.ProviderOllama) {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("URL:     "), cfg.Ollama.URL)
	}

	client, err := opts.newClient(cmd.Context(), cfg)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("Not ready: ")+err.Error())
		return fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	checker, ok := client.(completion.Checker)
	if !ok {
		fmt.Fprintln(out, mutedStyle.Render("Client configured (no probe available for this provider)"))
		return nil
	}
	if err := checker.Check(cmd.Context()); err != nil {
		fmt.Fprintln(out, errorStyle.Render("Unreachable: ")+err.Error())
		return err
	}
	fmt.Fprintln(out, currentStyle.Render("Ready"))
	return nil
}
