package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short string unchanged", "paper.pdf", 20, "paper.pdf"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "a_very_long_report_name.md", 12, "a_very_lo..."},
		{"tiny maxLen returns ellipsis", "hello", 3, "..."},
		{"zero maxLen returns ellipsis", "hello", 0, "..."},
		{"empty string unchanged", "", 10, ""},
		{"runes counted not bytes", "日本語テスト", 5, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}

func TestTruncateANSI(t *testing.T) {
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗ failed.pdf  context deadline exceeded")

	tests := []struct {
		name     string
		input    string
		maxWidth int
	}{
		{"plain line", "✓ paper.pdf  analyzing 3/8", 16},
		{"styled line", styled, 20},
		{"wide characters", "日本語テスト", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateANSI(tt.input, tt.maxWidth)
			if w := lipgloss.Width(got); w > tt.maxWidth {
				t.Errorf("TruncateANSI(%q, %d) has width %d", tt.input, tt.maxWidth, w)
			}
		})
	}

	short := lipgloss.NewStyle().Bold(true).Render("ok")
	if got := TruncateANSI(short, 10); got != short {
		t.Errorf("short styled string modified: %q", got)
	}
	if got := TruncateANSI("anything", 3); got != "..." {
		t.Errorf("TruncateANSI with tiny width = %q, want ellipsis", got)
	}
}
