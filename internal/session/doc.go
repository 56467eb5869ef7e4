// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the in-memory chat session state.
//
// A Store owns the list of active chats, the archived chat history, and the
// identity of the current chat. All reads return copies; all writes replace
// whole chat values. Listeners registered with Subscribe are notified after
// each mutation, outside the store lock.
//
// # Key Types
//
//   - Store: authoritative chat collections and current selection
//   - ArchivePolicy: what happens to the outgoing current chat on CreateChat
//   - Event: change notification delivered to listeners
//   - ChatNotFoundError: append or lookup against an unknown chat id
//
// # Usage
//
//	store := session.NewStore()
//	cancel := store.Subscribe(func(ev session.Event) {
//	    log.Printf("%s %s", ev.Kind, ev.ChatID)
//	})
//	defer cancel()
//
//	chat := store.CreateChat()
//	msg, _ := model.NewMessage(model.SenderUser, "hi")
//	if err := store.AppendMessage(chat.ID, msg); err != nil {
//	    // unknown chat id
//	}
//
// # Archive policies
//
// ArchiveCopy (the default) copies the outgoing chat into the history while
// leaving it selectable in the active list. ArchiveMove removes it from the
// active list; selecting a moved chat later restores it.
package session
