// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the chat view:
// the header bar, the chat sidebar, message bubbles, and the three-dot
// loading indicator.
//
// Components render from plain values and hold no session state; the chat
// model feeds them controller snapshots.
package components
