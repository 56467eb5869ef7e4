// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/livechat/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports chats to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter. Nil opts means defaults.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export renders chat as a Markdown transcript.
func (e *MarkdownExporter) Export(chat model.Chat) ([]byte, error) {
	if chat.IsEmpty() {
		return nil, ErrEmptyChat
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		first := chat.Messages[0].Timestamp
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "title: %s\n", escapeYAML(chat.Name))
		fmt.Fprintf(&sb, "date: %s\n", first.Format(time.RFC3339))
		fmt.Fprintf(&sb, "messages: %d\n", chat.Len())
		fmt.Fprintf(&sb, "exported: %s\n", e.options.now().Format(time.RFC3339))
		sb.WriteString("generator: livechat\n")
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(chat.Name))

	for i, msg := range chat.Messages {
		label := msg.Sender.DisplayName()
		if e.options.IncludeTimestamps {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", label, msg.Clock())
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", label)
		}

		// assistant replies are already markdown
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		if i < len(chat.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// =============================================================================
// ESCAPING
// =============================================================================

// escapeYAML quotes s when it would not parse as a plain scalar.
func escapeYAML(s string) string {
	if s == "" || strings.ContainsAny(s, ":#{}[],&*?|-<>=!%@`\"'\n") {
		return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
	}
	return s
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"#", `\#`,
		"[", `\[`,
		"]", `\]`,
	)
	return r.Replace(s)
}
