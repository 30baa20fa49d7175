// Package reindent is the indentation-normalization capability invoked after
// a splice. The engine supplies exactly the lines it inserted and has no
// opinion on indentation rules.
package reindent

import (
	"sort"
	"strings"
)

// Reindenter normalizes indentation over an inserted line range.
type Reindenter interface {
	Reindent(lines []string) ([]string, error)
}

// Noop leaves lines untouched, for hosts that reindent themselves.
type Noop struct{}

// Reindent returns the lines unchanged.
func (Noop) Reindent(lines []string) ([]string, error) {
	return lines, nil
}

// ListReindenter snaps indentation to multiples of Unit: each distinct
// indent depth observed in the block becomes the next level, so uneven
// source indentation (3 spaces, tabs) comes out uniform.
type ListReindenter struct {
	Unit int
}

// DefaultUnit is the indent width used when none is configured.
const DefaultUnit = 2

// Reindent rewrites leading whitespace. Blank lines pass through.
func (r ListReindenter) Reindent(lines []string) ([]string, error) {
	unit := r.Unit
	if unit <= 0 {
		unit = DefaultUnit
	}

	seen := map[int]bool{}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		seen[indentColumns(line)] = true
	}
	if len(seen) == 0 {
		return lines, nil
	}
	depths := make([]int, 0, len(seen))
	for d := range seen {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	level := make(map[int]int, len(depths))
	for i, d := range depths {
		level[d] = i
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		body := strings.TrimLeft(line, " \t")
		out[i] = strings.Repeat(" ", level[indentColumns(line)]*unit) + body
	}
	return out, nil
}

func indentColumns(line string) int {
	columns := 0
	for _, r := range line {
		switch r {
		case ' ':
			columns++
		case '\t':
			columns += 4
		default:
			return columns
		}
	}
	return columns
}
