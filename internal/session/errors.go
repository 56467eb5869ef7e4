// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "errors"

// ErrChatNotFound is matched by every ChatNotFoundError via errors.Is.
var ErrChatNotFound = errors.New("chat not found")

// ChatNotFoundError reports an operation against a chat id the store does not hold.
type ChatNotFoundError struct {
	ChatID string
}

func (e *ChatNotFoundError) Error() string {
	return "chat not found: " + e.ChatID
}

// Is lets errors.Is(err, ErrChatNotFound) match.
func (e *ChatNotFoundError) Is(target error) bool {
	return target == ErrChatNotFound
}

// IsChatNotFound reports whether err is (or wraps) a ChatNotFoundError.
func IsChatNotFound(err error) bool {
	return errors.Is(err, ErrChatNotFound)
}
