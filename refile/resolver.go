package refile

import (
	"fmt"

	"github.com/joeychilson/refiler/document"
	"github.com/joeychilson/refiler/outline"
)

// Target identifies where refiled content must land.
type Target struct {
	Document string `json:"document"`
	Heading  string `json:"heading"`
	Depth    int    `json:"depth"`
}

// ParseTarget converts a raw heading line (as delivered by a picker) into a
// target: depth is the marker-run length, the heading is the marker-stripped
// remainder.
func ParseTarget(documentID, rawLine string) (*Target, error) {
	depth, title, ok := document.ParseHeadingLine(rawLine)
	if !ok {
		return nil, fmt.Errorf("not a heading line: %q", rawLine)
	}
	return &Target{Document: documentID, Heading: title, Depth: depth}, nil
}

// FindTarget returns the first heading in document order whose text equals
// title exactly and whose depth equals depth, or nil when none matches.
// Duplicate (title, depth) pairs silently resolve to the first occurrence;
// use FindTargetStrict to reject that.
func FindTarget(headings []outline.Heading, title string, depth int) *outline.Heading {
	for i := range headings {
		if headings[i].Depth == depth && headings[i].Text == title {
			return &headings[i]
		}
	}
	return nil
}

// FindTargetStrict is FindTarget, except a title and depth matching more
// than one heading fails with ErrAmbiguousTarget.
func FindTargetStrict(headings []outline.Heading, title string, depth int) (*outline.Heading, error) {
	var match *outline.Heading
	for i := range headings {
		if headings[i].Depth != depth || headings[i].Text != title {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("heading %q depth %d: %w", title, depth, ErrAmbiguousTarget)
		}
		match = &headings[i]
	}
	return match, nil
}
