package format

import (
	"testing"
	"time"
)

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "now"},
		{"30 seconds", 30 * time.Second, "now"},
		{"1 minute", time.Minute, "1m"},
		{"59 minutes", 59 * time.Minute, "59m"},
		{"1 hour", time.Hour, "1h"},
		{"23 hours", 23 * time.Hour, "23h"},
		{"1 day", 24 * time.Hour, "1d"},
		{"6 days", 6 * 24 * time.Hour, "6d"},
		{"7 days (1 week)", 7 * 24 * time.Hour, "1w"},
		{"29 days", 29 * 24 * time.Hour, "4w"},
		{"30 days (1 month)", 30 * 24 * time.Hour, "1mo"},
		{"364 days", 364 * 24 * time.Hour, "12mo"},
		{"365 days (1 year)", 365 * 24 * time.Hour, "1y"},
		{"7 years", 7 * 365 * 24 * time.Hour, "7y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAge(tt.duration)
			if got != tt.expected {
				t.Errorf("FormatAge(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestCompactCount(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{"zero", 0, "0"},
		{"exact below 1000", 999, "999"},
		{"one decimal", 1234, "1.2k"},
		{"just under ten k", 9999, "10.0k"},
		{"tens of k", 12345, "12k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompactCount(tt.input)
			if got != tt.expected {
				t.Errorf("CompactCount(%d) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ansi", "hello", "hello"},
		{"single color", "\x1b[31mred\x1b[0m", "red"},
		{"complex", "\x1b[1;31;40mbold red on black\x1b[0m", "bold red on black"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripAnsi(tt.input)
			if got != tt.expected {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"with ansi", "\x1b[31mred\x1b[0m", 3},
		{"emoji fire", "🔥", 2},
		{"emoji lightning with VS16", "⚡️", 2},
		{"wide chars", "日本語", 6},
		{"mixed", "Hello, 世界!", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayWidth(tt.input)
			if got != tt.expected {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxWidth  int
		wantWidth int
	}{
		{"fits", "short", 10, 5},
		{"exact fit", "exactly10!", 10, 10},
		{"needs truncation", "this is a long description of a repository", 20, 20},
		{"wide chars truncated", "日本語のテキストです", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, width := TruncateToWidth(tt.input, tt.maxWidth)
			if width != tt.wantWidth {
				t.Errorf("TruncateToWidth(%q, %d) width = %d, want %d", tt.input, tt.maxWidth, width, tt.wantWidth)
			}
			if visible := DisplayWidth(got); visible > tt.maxWidth {
				t.Errorf("truncated string %q has visible width %d > max %d", got, visible, tt.maxWidth)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 2, 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 6, 5); got != "abcdef" {
		t.Errorf("PadRight overlong = %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single line", "hello", "hello"},
		{"leading blanks", "\n\n  first real line\nsecond", "first real line"},
		{"all blank", "\n  \n", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstLine(tt.input); got != tt.expected {
				t.Errorf("FirstLine(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
