// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/livechat/internal/completion"
	"github.com/jeranaias/livechat/internal/config"
	"github.com/jeranaias/livechat/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// annotationLog marks commands that own the terminal and must log to a file.
const annotationLog = "log"

// clientFactory builds the completion client; tests replace it.
type clientFactory func(ctx context.Context, cfg *config.Config) (completion.Client, error)

// rootOptions holds flag values and the state resolved in PersistentPreRunE.
type rootOptions struct {
	configPath string
	provider   string
	model      string
	verbose    bool

	newClient clientFactory

	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newRootCommand(&rootOptions{newClient: completion.New}, in, out, errOut)
}

func newRootCommand(opts *rootOptions, in io.Reader, out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "livechat",
		Short: "livechat - a terminal chat client for generative language models",
		Long: `livechat lets you hold several conversations with a language model
from the terminal. Chats live in memory for the session; starting a new
chat moves the previous one into the chat history.

Run without arguments to start the interactive interface.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Annotations:       map[string]string{annotationLog: "file"},
		PersistentPreRunE: opts.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.livechat/config.toml)")
	flags.StringVar(&opts.provider, "provider", "", "completion provider: gemini or ollama")
	flags.StringVar(&opts.model, "model", "", "model name for the selected provider")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newTUICommand(opts),
		newChatCommand(opts),
		newAskCommand(opts),
		newConfigCommand(opts),
		newStatusCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

// setup loads configuration, applies flag overrides, and builds the logger.
func (o *rootOptions) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.provider != "" {
		cfg.Provider = o.provider
	}
	if o.model != "" {
		cfg.SetModel(o.model)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	o.cfg = cfg

	logOpts := logging.Options{Level: cfg.Log.Level, Verbose: o.verbose}
	if cmd.Annotations[annotationLog] == "file" {
		path, err := cfg.LogPath()
		if err != nil {
			return err
		}
		logOpts.Path = path
	}

	logger, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	o.logger = logger

	logger.Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model()),
		zap.String("archive_policy", cfg.Session.ArchivePolicy))
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "livechat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
