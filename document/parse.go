package document

import "strings"

// builder tracks an open node while scanning; endLine is the last line
// attributed to the node so far.
type builder struct {
	node    *Node
	indent  int
	endLine int
}

// Parse builds the structural node tree for a markdown outline document.
// The scanner is line-accurate: every node carries the exact line range a
// later splice can extract or delete. Fenced code blocks are opaque.
func Parse(content string) *Tree {
	tree := &Tree{}
	if content != "" {
		tree.lines = strings.Split(content, "\n")
		if last := len(tree.lines) - 1; tree.lines[last] == "" {
			tree.lines = tree.lines[:last]
			tree.trailingNewline = true
		}
	}
	n := len(tree.lines)

	root := &Node{Kind: KindDocument, Range: Range{Start: Position{Line: 1, Col: 0}}, tree: tree}
	tree.Root = root

	headings := []*builder{{node: root, endLine: n}}
	var lists []*builder
	var block *builder

	closeBlock := func() {
		if block == nil {
			return
		}
		block.node.Range.End = tree.endPos(block.endLine)
		block = nil
	}
	popList := func() {
		top := lists[len(lists)-1]
		lists = lists[:len(lists)-1]
		top.node.Range.End = tree.endPos(top.endLine)
		if len(lists) > 0 && lists[len(lists)-1].endLine < top.endLine {
			lists[len(lists)-1].endLine = top.endLine
		}
	}
	closeListsDownTo := func(indent int) {
		for len(lists) > 0 && lists[len(lists)-1].indent >= indent {
			popList()
		}
	}
	closeAllLists := func() {
		for len(lists) > 0 {
			popList()
		}
	}
	extendLists := func(line int) {
		for _, b := range lists {
			if b.endLine < line {
				b.endLine = line
			}
		}
	}
	appendChild := func(parent, child *Node) {
		child.Parent = parent
		parent.Children = append(parent.Children, child)
	}

	inFence := false
	for i := 1; i <= n; i++ {
		line := tree.lines[i-1]
		trimmed := strings.TrimSpace(line)

		if isFenceLine(trimmed) {
			inFence = !inFence
		} else if !inFence {
			if trimmed == "" {
				closeBlock()
				continue
			}

			if depth, _, ok := ParseHeadingLine(line); ok {
				closeBlock()
				closeAllLists()
				for len(headings) > 1 && headings[len(headings)-1].node.Depth >= depth {
					top := headings[len(headings)-1]
					headings = headings[:len(headings)-1]
					top.node.Range.End = tree.endPos(i - 1)
				}
				node := &Node{
					Kind:  KindHeading,
					Depth: depth,
					Range: Range{Start: Position{Line: i, Col: 0}},
					tree:  tree,
				}
				appendChild(headings[len(headings)-1].node, node)
				headings = append(headings, &builder{node: node, endLine: i})
				continue
			}

			if indent, ordered, ok := parseListItemLine(line); ok {
				closeBlock()
				closeListsDownTo(indent)
				kind := KindUnorderedItem
				if ordered {
					kind = KindOrderedItem
				}
				node := &Node{
					Kind:  kind,
					Depth: len(lists) + 1,
					Range: Range{Start: Position{Line: i, Col: indent}},
					tree:  tree,
				}
				if len(lists) > 0 {
					appendChild(lists[len(lists)-1].node, node)
				} else {
					appendChild(headings[len(headings)-1].node, node)
				}
				lists = append(lists, &builder{node: node, indent: indent, endLine: i})
				extendLists(i)
				continue
			}
		}

		// Plain content: a list continuation when indented past the open
		// item's marker, otherwise part of a block under the current heading.
		indent := countIndentColumns(line)
		if !inFence && len(lists) > 0 {
			closeListsDownTo(indent)
		}
		if len(lists) > 0 {
			extendLists(i)
			continue
		}
		if block == nil {
			node := &Node{
				Kind:  KindBlock,
				Range: Range{Start: Position{Line: i, Col: indent}},
				tree:  tree,
			}
			appendChild(headings[len(headings)-1].node, node)
			block = &builder{node: node, endLine: i}
		} else {
			block.endLine = i
		}
	}

	closeBlock()
	closeAllLists()
	for len(headings) > 0 {
		top := headings[len(headings)-1]
		headings = headings[:len(headings)-1]
		top.node.Range.End = tree.endPos(n)
	}
	if n == 0 {
		root.Range.End = Position{Line: 1, Col: 0}
	}
	return tree
}

// endPos converts an inclusive last line into a range end position. When the
// line is followed by more text (or the document's trailing newline) the node
// owns that newline and the range ends at the start of the next line — the
// zero-width trailing boundary.
func (t *Tree) endPos(lastLine int) Position {
	if lastLine < 1 {
		return Position{Line: 1, Col: 0}
	}
	if lastLine < len(t.lines) || t.trailingNewline {
		return Position{Line: lastLine + 1, Col: 0}
	}
	return Position{Line: lastLine, Col: len(t.lines[lastLine-1])}
}

// ParseHeadingLine reports the marker depth and title of a heading line: a
// run of 1..MaxHeadingDepth '#' characters preceded only by whitespace and
// followed by whitespace and a non-empty title.
func ParseHeadingLine(line string) (depth int, title string, ok bool) {
	rest := strings.TrimLeft(line, " \t")
	i := 0
	for i < len(rest) && rest[i] == '#' {
		i++
	}
	if i == 0 || i > MaxHeadingDepth || i == len(rest) {
		return 0, "", false
	}
	if rest[i] != ' ' && rest[i] != '\t' {
		return 0, "", false
	}
	title = strings.TrimSpace(rest[i:])
	if title == "" {
		return 0, "", false
	}
	return i, title, true
}

// parseListItemLine reports the marker indent column and ordering of a list
// item line ("- x", "* x", "+ x", "1. x", "2) x").
func parseListItemLine(line string) (indent int, ordered bool, ok bool) {
	indent = countIndentColumns(line)
	rest := strings.TrimLeft(line, " \t")
	if len(rest) >= 2 {
		switch rest[0] {
		case '-', '*', '+':
			if rest[1] == ' ' || rest[1] == '\t' {
				return indent, false, true
			}
		}
	}
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(rest) {
		return 0, false, false
	}
	if rest[i] != '.' && rest[i] != ')' {
		return 0, false, false
	}
	if rest[i+1] != ' ' && rest[i+1] != '\t' {
		return 0, false, false
	}
	return indent, true, true
}

func isFenceLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// countIndentColumns measures leading whitespace in columns, counting tabs as
// four.
func countIndentColumns(line string) int {
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
