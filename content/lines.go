// Package content provides line-level text manipulation shared by the splice
// engine and the HTTP handlers. Line numbers are 1-based and ranges are
// inclusive on both ends.
package content

import (
	"fmt"
	"strings"
)

// Lines splits content into lines. A trailing newline produces a final empty
// element, so Join(Lines(s)) == s for any s.
func Lines(content string) []string {
	return strings.Split(content, "\n")
}

// Join is the inverse of Lines.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}

// ExtractLines returns the inclusive line range [start, end] of content.
func ExtractLines(content string, start, end int) (string, error) {
	lines := Lines(content)
	total := len(lines)
	if start < 1 {
		start = 1
	}
	if end > total {
		end = total
	}
	if start > end {
		return "", fmt.Errorf("invalid range: start line (%d) must not exceed end line (%d)", start, end)
	}
	return Join(lines[start-1 : end]), nil
}

// InsertLines returns a new slice with insert placed before line at. An at
// past the final line appends.
func InsertLines(lines []string, at int, insert []string) []string {
	if at < 1 {
		at = 1
	}
	if at > len(lines)+1 {
		at = len(lines) + 1
	}
	out := make([]string, 0, len(lines)+len(insert))
	out = append(out, lines[:at-1]...)
	out = append(out, insert...)
	out = append(out, lines[at-1:]...)
	return out
}

// RemoveLines returns a new slice without the inclusive range [start, end].
func RemoveLines(lines []string, start, end int) []string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		out := make([]string, len(lines))
		copy(out, lines)
		return out
	}
	out := make([]string, 0, len(lines)-(end-start+1))
	out = append(out, lines[:start-1]...)
	out = append(out, lines[end:]...)
	return out
}

// ReplaceLines substitutes the inclusive range [start, end] of content with
// the replacement lines, returning the new content.
func ReplaceLines(content string, start, end int, replacement []string) (string, error) {
	lines := Lines(content)
	total := len(lines)
	if start < 1 || start > total {
		return "", fmt.Errorf("start line (%d) outside document (%d lines)", start, total)
	}
	if end < start {
		return "", fmt.Errorf("invalid range: start line (%d) must not exceed end line (%d)", start, end)
	}
	if end > total {
		end = total
	}
	out := make([]string, 0, total-(end-start+1)+len(replacement))
	out = append(out, lines[:start-1]...)
	out = append(out, replacement...)
	out = append(out, lines[end:]...)
	return Join(out), nil
}
