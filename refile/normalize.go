package refile

import (
	"regexp"
	"strings"
)

// markerRunRe matches a heading marker run preceded only by whitespace and
// followed by whitespace or end of line.
var markerRunRe = regexp.MustCompile(`^([ \t]*)(#+)([ \t]|$)`)

// noHeadingSentinel stands in for the minimum level when the text contains
// no heading lines; no recorded line can reference it.
const noHeadingSentinel = 100

// Normalize rewrites every heading marker line of text so relative nesting
// is preserved but re-anchored under baseDepth: the shallowest heading in
// the block becomes baseDepth+1, and deeper headings keep their offsets.
// Text with no heading lines is returned unchanged for any baseDepth.
func Normalize(baseDepth int, text string) string {
	lines := strings.Split(text, "\n")

	type markedLine struct {
		idx   int
		level int
	}
	var marked []markedLine
	minLevel := noHeadingSentinel
	for i, line := range lines {
		level, ok := markerRun(line)
		if !ok {
			continue
		}
		marked = append(marked, markedLine{idx: i, level: level})
		if level < minLevel {
			minLevel = level
		}
	}

	for _, m := range marked {
		newLevel := baseDepth + (m.level - minLevel + 1)
		line := lines[m.idx]
		ws := len(line) - len(strings.TrimLeft(line, " \t"))
		lines[m.idx] = line[:ws] + strings.Repeat("#", newLevel) + line[ws+m.level:]
	}
	return strings.Join(lines, "\n")
}

// markerRun returns the marker-run length of a heading line, if any.
func markerRun(line string) (int, bool) {
	m := markerRunRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return len(m[2]), true
}

// markerLevels reports the shallowest and deepest marker runs in text.
func markerLevels(text string) (min, max int, found bool) {
	for _, line := range strings.Split(text, "\n") {
		level, ok := markerRun(line)
		if !ok {
			continue
		}
		if !found || level < min {
			min = level
		}
		if !found || level > max {
			max = level
		}
		found = true
	}
	return min, max, found
}
