// Package format provides shared text formatting utilities for terminal output.
package format

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of a string in terminal columns,
// accounting for wide characters like emojis (which take 2 columns)
// and stripping ANSI escape sequences.
func DisplayWidth(s string) int {
	plain := StripAnsi(s)
	width := 0
	runes := []rune(plain)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		// Emoji presentation sequence: base + U+FE0F (VS16) renders as 2
		// columns in modern terminals.
		if i+1 < len(runes) && runes[i+1] == '️' {
			width += 2
			i++
			continue
		}
		if r == '️' {
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}

// TruncateToWidth truncates a string to fit within maxWidth display columns.
// ANSI escape sequences are preserved without counting toward the width.
// Returns the truncated string and its visible width. If truncation occurs,
// "..." is appended along with an ANSI reset code.
func TruncateToWidth(s string, maxWidth int) (string, int) {
	width := DisplayWidth(s)
	if width <= maxWidth {
		return s, width
	}

	targetWidth := maxWidth - 3
	if targetWidth < 0 {
		targetWidth = 0
	}

	matches := ansiRegex.FindAllStringIndex(s, -1)

	var result strings.Builder
	visibleWidth := 0
	pos := 0
	matchIdx := 0

	for pos < len(s) && visibleWidth < targetWidth {
		if matchIdx < len(matches) && pos == matches[matchIdx][0] {
			result.WriteString(s[matches[matchIdx][0]:matches[matchIdx][1]])
			pos = matches[matchIdx][1]
			matchIdx++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[pos:])

		nextPos := pos + size
		if nextPos < len(s) {
			nextR, nextSize := utf8.DecodeRuneInString(s[nextPos:])
			if nextR == '️' {
				if visibleWidth+2 > targetWidth {
					break
				}
				result.WriteString(s[pos : nextPos+nextSize])
				visibleWidth += 2
				pos = nextPos + nextSize
				continue
			}
		}

		if r == '️' {
			pos += size
			continue
		}

		rw := runewidth.RuneWidth(r)
		if visibleWidth+rw > targetWidth {
			break
		}

		result.WriteString(s[pos : pos+size])
		visibleWidth += rw
		pos += size
	}

	// Reset in case truncation landed inside a color span.
	result.WriteString("...\033[0m")

	return result.String(), maxWidth
}

// PadRight pads a string with spaces to reach the target visible width.
func PadRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}

// FirstLine returns the first non-empty line of a text block, trimmed.
// Useful for squeezing descriptions and readmes into a table cell.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
