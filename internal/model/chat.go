// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
)

// EmptyPreview is the preview text of a chat with no messages.
const EmptyPreview = "No messages yet"

// Chat is a named, ordered collection of messages.
//
// Messages are append-only and kept in send order. A Chat value must be
// treated as immutable; use WithMessage to derive an updated copy.
type Chat struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// DefaultChatName returns the label given to the n-th chat ("Chat n").
func DefaultChatName(n int) string {
	return "Chat " + strconv.Itoa(n)
}

// NewChat creates an empty chat with a generated ID.
func NewChat(name string) Chat {
	return Chat{
		ID:       newID(),
		Name:     name,
		Messages: []Message{},
	}
}

// WithMessage returns a copy of c with msg appended. The receiver is left
// untouched and the returned chat never shares a backing array with it.
func (c Chat) WithMessage(msg Message) Chat {
	next := make([]Message, len(c.Messages), len(c.Messages)+1)
	copy(next, c.Messages)
	c.Messages = append(next, msg)
	return c
}

// Clone returns a deep copy of the chat.
func (c Chat) Clone() Chat {
	msgs := make([]Message, len(c.Messages))
	copy(msgs, c.Messages)
	c.Messages = msgs
	return c
}

// Len returns the number of messages.
func (c Chat) Len() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// LastMessage returns the most recent message, if any.
func (c Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Preview summarizes the last message for list displays.
func (c Chat) Preview(maxLen int) string {
	last, ok := c.LastMessage()
	if !ok {
		return EmptyPreview
	}
	return last.Preview(maxLen)
}
