// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/livechat/internal/completion"
)

// =============================================================================
// LOGGER
// =============================================================================

// Options controls logger construction.
type Options struct {
	// Level is one of debug, info, warn, error
	Level string
	// Verbose forces debug level
	Verbose bool
	// Path is the log file; empty logs to stderr
	Path string
}

// New builds a production JSON logger.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		config.OutputPaths = []string{opts.Path}
		config.ErrorOutputPaths = []string{opts.Path}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("livechat"), nil
}

func parseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// =============================================================================
// ERROR SINK
// =============================================================================

// Sink records failed completions: each is logged at error level and kept
// so the UI can show the most recent one.
type Sink struct {
	logger *zap.Logger

	mu    sync.Mutex
	count int
	last  error
}

// NewSink returns a Sink that logs to logger. A nil logger discards.
func NewSink(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{logger: logger}
}

// ReportError logs err and remembers it.
func (s *Sink) ReportError(err error) {
	if err == nil {
		return
	}

	s.logger.Error("completion failed",
		zap.String("kind", completion.KindOf(err).String()),
		zap.Error(err))

	s.mu.Lock()
	s.count++
	s.last = err
	s.mu.Unlock()
}

// Count returns how many errors were reported.
func (s *Sink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Last returns the most recent error, or nil.
func (s *Sink) Last() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
