// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/livechat/internal/model"
)

var exportTime = time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)

func sampleChat(t *testing.T) model.Chat {
	t.Helper()
	chat := model.NewChat("Chat 1")
	at := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)

	user, err := model.NewMessageAt(model.SenderUser, "What is *Go*?", at)
	require.NoError(t, err)
	reply, err := model.NewMessageAt(model.SenderAssistant, "A language.\n", at.Add(time.Minute))
	require.NoError(t, err)

	return chat.WithMessage(user).WithMessage(reply)
}

func fixedOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return exportTime }
	return opts
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(fixedOptions("")).Export(sampleChat(t))
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "---\ntitle: Chat 1\n"))
	assert.Contains(t, md, "messages: 2\n")
	assert.Contains(t, md, "exported: 2024-05-01T15:00:00Z\n")
	assert.Contains(t, md, "# Chat 1\n")
	assert.Contains(t, md, "### You <sub>14:30</sub>\n\nWhat is *Go*?")
	assert.Contains(t, md, "### Assistant <sub>14:31</sub>\n\nA language.")
}

func TestMarkdownExport_NoMetadata(t *testing.T) {
	opts := fixedOptions("")
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(sampleChat(t))
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# Chat 1\n"))
	assert.Contains(t, md, "### You\n")
	assert.NotContains(t, md, "<sub>")
}

func TestMarkdownExport_EmptyChat(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(model.NewChat("Chat 1"))
	assert.ErrorIs(t, err, ErrEmptyChat)
}

func TestJSONExport(t *testing.T) {
	chat := sampleChat(t)
	out, err := NewJSONExporter().Export(chat)
	require.NoError(t, err)

	var decoded model.Chat
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, chat.ID, decoded.ID)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, model.SenderAssistant, decoded.Messages[1].Sender)
}

func TestExporterFor(t *testing.T) {
	for _, format := range []string{"", "md", "Markdown"} {
		e, err := ExporterFor(format, nil)
		require.NoError(t, err)
		assert.Equal(t, ".md", e.FileExtension())
	}

	e, err := ExporterFor("json", nil)
	require.NoError(t, err)
	assert.Equal(t, ".json", e.FileExtension())

	_, err = ExporterFor("pdf", nil)
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := fixedOptions(dir)

	path, err := ExportToFile(sampleChat(t), NewMarkdownExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chat_Chat_1_20240501_150000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Chat 1")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestExportToFile_EmptyChat(t *testing.T) {
	dir := t.TempDir()
	_, err := ExportToFile(model.NewChat("Chat 1"), NewJSONExporter(), fixedOptions(dir))
	assert.ErrorIs(t, err, ErrEmptyChat)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Chat 1", "Chat_1"},
		{`a/b\c:d`, "a-b-c-d"},
		{"", "chat"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
