// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", content, data)
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwritesAndSetsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("second"), 0600); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "second" {
		t.Errorf("Content = %q, want %q", content, "second")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Mode = %o, want 600", info.Mode().Perm())
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		input    string
		maxRunes int
		want     string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"日本語テキスト", 5, "日本..."},
	}

	for _, tc := range tests {
		got := TruncateRunes(tc.input, tc.maxRunes)
		if got != tc.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.maxRunes, got, tc.want)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		input    string
		maxWidth int
		want     string
	}{
		{"Chat 1", 10, "Chat 1"},
		{"a long chat name", 8, "a lon..."},
		{"日本語", 6, "日本語"},
		{"日本語テキスト", 7, "日本..."},
		{"abc", 0, ""},
	}

	for _, tc := range tests {
		got := TruncateWidth(tc.input, tc.maxWidth)
		if got != tc.want {
			t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tc.input, tc.maxWidth, got, tc.want)
		}
		if StringWidth(got) > tc.maxWidth {
			t.Errorf("TruncateWidth(%q, %d) width = %d", tc.input, tc.maxWidth, StringWidth(got))
		}
	}
}

func TestPadRight(t *testing.T) {
	got := PadRight("Chat 1", 10)
	if got != "Chat 1    " {
		t.Errorf("PadRight = %q", got)
	}
	if StringWidth(PadRight("a very long chat name", 10)) != 10 {
		t.Error("PadRight should clamp to the requested width")
	}
}

func TestSingleLineAndIsBlank(t *testing.T) {
	if got := SingleLine("  hello\n\tworld  "); got != "hello world" {
		t.Errorf("SingleLine = %q", got)
	}
	for _, s := range []string{"", " ", "\t\n"} {
		if !IsBlank(s) {
			t.Errorf("IsBlank(%q) = false", s)
		}
	}
	if IsBlank(" x ") {
		t.Error("IsBlank(\" x \") = true")
	}
}
