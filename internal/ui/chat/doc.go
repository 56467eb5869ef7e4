// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat interface for livechat.

# Key Components

## Model (model.go)

The Model wraps a controller.Controller and renders its snapshots:
  - Header with title, subtitle, and model name
  - Toggleable sidebar with active chats and the "Chat History" section
  - Scrollable message timeline
  - Three-dot loading indicator while a reply is pending
  - Single-line text input

## Update Loop (update.go)

Every store mutation happens inside Update. Sending a message calls
Controller.Begin on the loop, runs Controller.Resolve inside a tea.Cmd, and
hands the result back as a completionMsg so Controller.Apply also runs on
the loop. A reply therefore always lands in the chat it was sent from.

# Keys

	enter        send message (or select chat when the sidebar is focused)
	ctrl+n       start a new chat
	tab          focus or leave the sidebar
	up/down      move in the sidebar, scroll otherwise
	pgup/pgdn    scroll the timeline
	ctrl+b       show or hide the sidebar
	ctrl+c       quit
*/
package chat
