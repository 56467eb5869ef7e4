// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller turns user intents into session store mutations and
// completion calls, and owns the loading flag.
//
// A send is split into three steps so an event loop can run the slow part
// off the loop:
//
//	req, ok := c.Begin(text)    // on the loop: append user message, set loading
//	res := c.Resolve(ctx, req)  // anywhere: call the completion client
//	c.Apply(res)                // on the loop: append reply, clear loading
//
// SendMessage runs all three in order. The reply always lands in the chat the
// request was issued from, even if the user has since switched chats.
package controller
