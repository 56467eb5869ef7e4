// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/livechat/internal/config"
)

// =============================================================================
// CLIENT INTERFACE
// =============================================================================

// Client generates an assistant reply for a single user prompt.
// Implementations must be safe for concurrent use.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Checker is implemented by clients that can probe their backend without
// sending a prompt.
type Checker interface {
	Check(ctx context.Context) error
}

// ClientFunc adapts a plain function to the Client interface.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f ClientFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options are the generation parameters sent with every request.
type Options struct {
	CandidateCount  int
	StopSequences   []string
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
	TopK            int
}

// DefaultOptions returns the stock generation parameters.
func DefaultOptions() Options {
	return Options{
		CandidateCount:  1,
		StopSequences:   []string{"red"},
		MaxOutputTokens: 200,
		Temperature:     1.0,
		TopP:            0.1,
		TopK:            16,
	}
}

// OptionsFromConfig copies the generation section of cfg.
func OptionsFromConfig(g config.GenerationConfig) Options {
	return Options{
		CandidateCount:  g.CandidateCount,
		StopSequences:   append([]string(nil), g.StopSequences...),
		MaxOutputTokens: g.MaxOutputTokens,
		Temperature:     g.Temperature,
		TopP:            g.TopP,
		TopK:            g.TopK,
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrCompletion matches every *Error via errors.Is.
var ErrCompletion = errors.New("completion failed")

// Kind classifies a completion failure for logging.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindAuth
	KindQuota
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindQuota:
		return "quota"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the single error type a Client returns.
type Error struct {
	Provider string
	Kind     Kind
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s error: %s", e.Provider, e.Kind, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrCompletion.
func (e *Error) Is(target error) bool {
	return target == ErrCompletion
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return KindUnknown
}

// kindFromStatus maps an HTTP status code to a Kind.
func kindFromStatus(code int) Kind {
	switch {
	case code == 401 || code == 403:
		return KindAuth
	case code == 429:
		return KindQuota
	case code >= 500:
		return KindNetwork
	default:
		return KindUnknown
	}
}

// isContextErr reports a cancelled or expired request.
func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
