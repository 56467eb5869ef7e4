// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
)

// renderMarkdown renders content for terminal display, or returns it
// unchanged when the renderer is unavailable.
func renderMarkdown(content string) string {
	markdownOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()-4),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse writes a reply, rendering markdown only when stdout is a
// TTY so piped output stays plain.
func displayResponse(w io.Writer, response string, tty bool) {
	if tty {
		fmt.Fprint(w, renderMarkdown(response))
		return
	}
	fmt.Fprint(w, response)
	if !strings.HasSuffix(response, "\n") {
		fmt.Fprintln(w)
	}
}
