// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// EventKind classifies a store change notification.
type EventKind int

const (
	ChatCreated EventKind = iota
	ChatArchived
	ChatRestored
	ChatSelected
	MessageAppended
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case ChatCreated:
		return "chat_created"
	case ChatArchived:
		return "chat_archived"
	case ChatRestored:
		return "chat_restored"
	case ChatSelected:
		return "chat_selected"
	case MessageAppended:
		return "message_appended"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after a mutation has been applied.
type Event struct {
	Kind   EventKind
	ChatID string
	// MessageID is set for MessageAppended.
	MessageID string
}

// Listener receives store events. It runs on the goroutine that performed
// the mutation and must not block.
type Listener func(Event)
