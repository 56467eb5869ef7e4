// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/livechat/internal/config"
	"github.com/jeranaias/livechat/internal/controller"
	"github.com/jeranaias/livechat/internal/logging"
	"github.com/jeranaias/livechat/internal/session"
)

// app bundles the objects one command run needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	sink   *logging.Sink
	ctrl   *controller.Controller
}

// newApp wires a fresh store, completion client, and controller from the
// resolved configuration.
func (o *rootOptions) newApp(ctx context.Context) (*app, error) {
	cfg := o.cfg
	logger := o.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	policy, err := session.ParseArchivePolicy(cfg.Session.ArchivePolicy)
	if err != nil {
		return nil, err
	}

	client, err := o.newClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	sink := logging.NewSink(logger)
	ctrl := controller.New(
		session.NewStore(session.WithArchivePolicy(policy)),
		client,
		controller.WithSink(sink),
		controller.WithLogger(logger.Named("controller")),
		controller.WithTimeout(cfg.Request.Timeout()),
	)

	return &app{cfg: cfg, logger: logger, sink: sink, ctrl: ctrl}, nil
}
