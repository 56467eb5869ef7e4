// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/livechat/internal/util"
)

// ErrEmptyContent is returned when a message would be created without text.
var ErrEmptyContent = errors.New("message content must not be empty")

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "Assistant"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a chat.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(sender Sender, content string) (Message, error) {
	return NewMessageAt(sender, content, time.Now())
}

// NewMessageAt creates a message with an explicit timestamp.
func NewMessageAt(sender Sender, content string, at time.Time) (Message, error) {
	if content == "" {
		return Message{}, ErrEmptyContent
	}
	if !sender.Valid() {
		return Message{}, errors.New("unknown sender: " + string(sender))
	}
	return Message{
		ID:        newID(),
		Content:   content,
		Sender:    sender,
		Timestamp: at,
	}, nil
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Clock returns the hour:minute label shown next to a message bubble.
func (m Message) Clock() string {
	return m.Timestamp.Format("15:04")
}

// Preview returns a truncated, single-width-safe preview of the content.
func (m Message) Preview(maxLen int) string {
	return util.TruncateRunes(util.SingleLine(m.Content), maxLen)
}

// newID returns a random identifier for chats and messages.
func newID() string {
	return uuid.NewString()
}
