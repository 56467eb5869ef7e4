// livechat - a terminal chat client for generative language models.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/livechat/internal/cli"
)

// Build information, set with -ldflags "-X main.version=...".
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

func main() {
	if version != "" {
		cli.Version = version
	}
	if gitCommit != "" {
		cli.GitCommit = gitCommit
	}
	if buildDate != "" {
		cli.BuildDate = buildDate
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
