// Package outline answers structural questions about parsed documents: which
// enclosing unit a position belongs to, and which headings a document
// contains, in order.
package outline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeychilson/refiler/document"
)

// ErrInconsistentTree reports a parse tree that violates the heading nesting
// invariant. It indicates a broken tree, not a user mistake.
var ErrInconsistentTree = errors.New("inconsistent document tree")

// Heading is one heading of a document, in document order. Records are
// recomputed per operation and never cached across edits.
type Heading struct {
	Node  *document.Node
	Depth int
	Text  string
}

// Line returns the 1-based line number of the heading's own line.
func (h Heading) Line() int {
	return h.Node.Range.Start.Line
}

// Raw returns the heading's raw source line, marker run included.
func (h Heading) Raw() string {
	text := h.Node.Text()
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

// EnclosingRefilable walks the ancestor chain from n (inclusive) toward the
// document root and returns the first heading or list item, or nil when the
// root is reached without a match. Callers treat nil as "nothing refilable
// here" rather than an error.
func EnclosingRefilable(n *document.Node) *document.Node {
	for node := n; node != nil; node = node.Parent {
		if node.Refilable() {
			return node
		}
	}
	return nil
}

// Headings returns every heading of the tree in document order, depths 1
// through document.MaxHeadingDepth. A heading whose parent is neither a
// heading nor the document root fails with ErrInconsistentTree.
func Headings(tree *document.Tree) ([]Heading, error) {
	var headings []Heading
	var fail error
	tree.Walk(func(n *document.Node) bool {
		if n.Kind != document.KindHeading {
			return true
		}
		if n.Parent == nil || (n.Parent.Kind != document.KindHeading && n.Parent.Kind != document.KindDocument) {
			fail = fmt.Errorf("heading %q nested under %s node: %w", n.HeadingTitle(), n.Parent.Kind, ErrInconsistentTree)
			return false
		}
		headings = append(headings, Heading{
			Node:  n,
			Depth: n.Depth,
			Text:  n.HeadingTitle(),
		})
		return true
	})
	if fail != nil {
		return nil, fail
	}
	return headings, nil
}
