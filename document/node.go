package document

import "strings"

// MaxHeadingDepth is the deepest heading level the outline model recognizes.
const MaxHeadingDepth = 7

// Kind identifies the structural type of a node in a parsed document tree.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindOrderedItem
	KindUnorderedItem
	KindBlock
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindHeading:
		return "heading"
	case KindOrderedItem:
		return "ordered_item"
	case KindUnorderedItem:
		return "unordered_item"
	case KindBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Position is a location in a document. Lines are 1-based, columns 0-based.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Before reports whether p is strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

// Range is a half-open span of document text: Start is inside the range,
// End is the first position past it. A range ending at (line, 0) runs up to
// the start of that line without touching its content.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos falls inside the range.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

// Node is a structural element of a parsed document tree. Nodes are owned by
// their Tree and are read-only once parsing completes.
type Node struct {
	Kind     Kind
	Depth    int // heading level or list nesting level; 0 for other kinds
	Range    Range
	Parent   *Node
	Children []*Node

	tree *Tree
}

// Refilable reports whether the node is a unit the refile operation can move.
func (n *Node) Refilable() bool {
	switch n.Kind {
	case KindHeading, KindOrderedItem, KindUnorderedItem:
		return true
	}
	return false
}

// LineSpan returns the 1-based inclusive line range the node occupies.
// A range ending at column 0 stops on the previous line; consuming the line
// the range merely touches would delete content the node never spanned.
func (n *Node) LineSpan() (start, end int) {
	start = n.Range.Start.Line
	end = n.Range.End.Line
	if n.Range.End.Col == 0 && end > start {
		end--
	}
	return start, end
}

// Text returns the source text spanned by the node, without a trailing newline.
func (n *Node) Text() string {
	if n.tree == nil {
		return ""
	}
	start, end := n.LineSpan()
	if start < 1 || end > len(n.tree.lines) || start > end {
		return ""
	}
	return strings.Join(n.tree.lines[start-1:end], "\n")
}

// HeadingTitle returns the marker-stripped title of a heading node, or ""
// for non-heading nodes.
func (n *Node) HeadingTitle() string {
	if n.Kind != KindHeading || n.tree == nil {
		return ""
	}
	line := n.tree.Line(n.Range.Start.Line)
	_, title, ok := ParseHeadingLine(line)
	if !ok {
		return ""
	}
	return title
}

// Tree is a parsed document. The tree never mutates its source; edits happen
// on raw content and require a re-parse.
type Tree struct {
	Root *Node

	lines           []string
	trailingNewline bool
}

// Lines returns the document's lines. The returned slice is shared; callers
// must not modify it.
func (t *Tree) Lines() []string {
	return t.lines
}

// Line returns the 1-based line, or "" when out of range.
func (t *Tree) Line(n int) string {
	if n < 1 || n > len(t.lines) {
		return ""
	}
	return t.lines[n-1]
}

// LineCount returns the number of lines in the document.
func (t *Tree) LineCount() int {
	return len(t.lines)
}

// NodeAt returns the smallest node containing the given position, or nil when
// the position is outside the document.
func (t *Tree) NodeAt(line, col int) *Node {
	pos := Position{Line: line, Col: col}
	if t.Root == nil || !t.Root.Range.Contains(pos) {
		return nil
	}
	node := t.Root
	for {
		var next *Node
		for _, child := range node.Children {
			if child.Range.Contains(pos) {
				next = child
				break
			}
		}
		if next == nil {
			return node
		}
		node = next
	}
}

// Walk visits every node in document order, stopping early when fn returns
// false.
func (t *Tree) Walk(fn func(*Node) bool) {
	if t.Root == nil {
		return
	}
	walk(t.Root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}
