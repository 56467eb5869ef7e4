// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme_ExplicitMode(t *testing.T) {
	if !NewTheme("dark").IsDark {
		t.Error("dark theme should report IsDark")
	}
	if NewTheme("LIGHT").IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}

	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestBubbleWidth(t *testing.T) {
	if got := BubbleWidth(80); got != 60 {
		t.Errorf("BubbleWidth(80) = %d, want 60", got)
	}
	if got := BubbleWidth(20); got != 20 {
		t.Errorf("BubbleWidth(20) = %d, want full width for narrow areas", got)
	}
}
