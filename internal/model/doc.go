// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
//
// Both types are values: a Chat is never modified in place. Appending a
// message produces a new Chat that shares nothing mutable with the old one.
//
// # Key Types
//
//   - Chat: named, ordered, append-only sequence of messages
//   - Message: one authored turn with sender, content, and timestamp
//   - Sender: closed set of authors (user, assistant)
//
// # Usage
//
//	chat := model.NewChat(model.DefaultChatName(1))
//	msg, err := model.NewMessage(model.SenderUser, "Hello!")
//	if err != nil {
//	    return err
//	}
//	chat = chat.WithMessage(msg)
package model
