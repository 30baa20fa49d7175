// Package refile moves a heading subtree or list item from one outline
// document to another. The engine extracts the block enclosing a position,
// re-anchors its heading levels under a chosen target heading, inserts it
// directly after the target's heading line, and removes it from the source.
package refile

import (
	"context"
	"fmt"
	"time"

	"github.com/joeychilson/refiler/content"
	"github.com/joeychilson/refiler/document"
	"github.com/joeychilson/refiler/logger"
	"github.com/joeychilson/refiler/outline"
	"github.com/joeychilson/refiler/picker"
	"github.com/joeychilson/refiler/reindent"
	"github.com/joeychilson/refiler/store"
)

// Position is the cursor location initiating a refile. Lines are 1-based,
// columns 0-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Request describes one refile operation. A nil Target defers target
// selection to the engine's picker.
type Request struct {
	SourceDocument string   `json:"source_document"`
	Position       Position `json:"position"`
	Target         *Target  `json:"target,omitempty"`
}

// Result reports where the moved block landed.
type Result struct {
	SourceDocument string `json:"source_document"`
	TargetDocument string `json:"target_document"`
	TargetHeading  string `json:"target_heading"`
	TargetDepth    int    `json:"target_depth"`
	InsertedStart  int    `json:"inserted_start"`
	InsertedEnd    int    `json:"inserted_end"`
	LinesMoved     int    `json:"lines_moved"`
}

// Options configures an Engine.
type Options struct {
	// Picker selects a target when a request carries none. Optional.
	Picker picker.Picker
	// Reindenter adjusts indentation of moved list items. Defaults to Noop.
	Reindenter reindent.Reindenter
	// Logger defaults to a no-op logger.
	Logger logger.Logger
	// StrictTargets rejects a title and depth matching more than one heading
	// instead of taking the first match.
	StrictTargets bool
}

// Engine performs refile operations against a document store.
type Engine struct {
	store      store.Store
	picker     picker.Picker
	reindenter reindent.Reindenter
	logger     logger.Logger
	strict     bool
}

// NewEngine creates an engine over the given store.
func NewEngine(s store.Store, opts *Options) *Engine {
	if opts == nil {
		opts = &Options{}
	}
	e := &Engine{
		store:      s,
		picker:     opts.Picker,
		reindenter: opts.Reindenter,
		logger:     opts.Logger,
		strict:     opts.StrictTargets,
	}
	if e.reindenter == nil {
		e.reindenter = reindent.Noop{}
	}
	if e.logger == nil {
		e.logger = logger.Noop()
	}
	return e
}

// Refile moves the refilable block enclosing the request position under the
// target heading. A (nil, nil) return means the user cancelled target
// selection; the source is untouched. On any error the store keeps its
// previous state, except when a cross-document source write fails after the
// target write succeeded, which is reported as an error naming both steps.
func (e *Engine) Refile(ctx context.Context, req *Request) (*Result, error) {
	src, err := e.store.Get(ctx, req.SourceDocument)
	if err != nil {
		return nil, fmt.Errorf("reading source document %q: %w", req.SourceDocument, err)
	}

	tree := document.Parse(src.Content)
	at := tree.NodeAt(req.Position.Line, req.Position.Column)
	if at == nil {
		return nil, fmt.Errorf("position %d:%d: %w", req.Position.Line, req.Position.Column, ErrNoRefilableNode)
	}
	node := outline.EnclosingRefilable(at)
	if node == nil {
		return nil, fmt.Errorf("position %d:%d: %w", req.Position.Line, req.Position.Column, ErrNoRefilableNode)
	}

	target := req.Target
	if target == nil {
		target, err = e.pickTarget(ctx)
		if err != nil {
			return nil, err
		}
		if target == nil {
			e.logger.Info("refile cancelled", "source", req.SourceDocument)
			return nil, nil
		}
	}

	startLine, endLine := node.LineSpan()
	moved := node.Text()

	if min, max, found := markerLevels(moved); found {
		if target.Depth+(max-min+1) > document.MaxHeadingDepth {
			return nil, fmt.Errorf("anchoring levels %d..%d under depth %d: %w", min, max, target.Depth, ErrDepthExceeded)
		}
	}

	sameDoc := target.Document == req.SourceDocument
	dst := src
	dstTree := tree
	if !sameDoc {
		dst, err = e.store.Get(ctx, target.Document)
		if err != nil {
			return nil, fmt.Errorf("reading target document %q: %w", target.Document, err)
		}
		dstTree = document.Parse(dst.Content)
	}

	headings, err := outline.Headings(dstTree)
	if err != nil {
		return nil, fmt.Errorf("scanning target document %q: %w", target.Document, err)
	}

	var matched *outline.Heading
	if e.strict {
		matched, err = FindTargetStrict(headings, target.Heading, target.Depth)
		if err != nil {
			return nil, err
		}
	} else {
		matched = FindTarget(headings, target.Heading, target.Depth)
	}
	if matched == nil {
		return nil, fmt.Errorf("heading %q depth %d in %q: %w", target.Heading, target.Depth, target.Document, ErrTargetNotFound)
	}
	if sameDoc && matched.Line() >= startLine && matched.Line() <= endLine {
		return nil, fmt.Errorf("heading %q at line %d: %w", target.Heading, matched.Line(), ErrTargetWithinSource)
	}

	insert := content.Lines(Normalize(target.Depth, moved))
	if node.Kind == document.KindOrderedItem || node.Kind == document.KindUnorderedItem {
		adjusted, rerr := e.reindenter.Reindent(insert)
		if rerr != nil {
			e.logger.Warn("reindent failed, inserting unadjusted", "error", rerr)
		} else {
			insert = adjusted
		}
	}

	insertAt := matched.Line() + 1
	removed := endLine - startLine + 1
	now := time.Now()

	if sameDoc {
		lines := content.InsertLines(content.Lines(src.Content), insertAt, insert)
		remStart, remEnd := startLine, endLine
		if insertAt <= startLine {
			remStart += len(insert)
			remEnd += len(insert)
		}
		src.Content = content.Join(content.RemoveLines(lines, remStart, remEnd))
		src.UpdatedAt = now
		if err := e.store.Put(ctx, src); err != nil {
			return nil, fmt.Errorf("writing document %q: %w", req.SourceDocument, err)
		}
	} else {
		dst.Content = content.Join(content.InsertLines(content.Lines(dst.Content), insertAt, insert))
		dst.UpdatedAt = now
		if err := e.store.Put(ctx, dst); err != nil {
			return nil, fmt.Errorf("writing target document %q: %w", target.Document, err)
		}
		src.Content = content.Join(content.RemoveLines(content.Lines(src.Content), startLine, endLine))
		src.UpdatedAt = now
		if err := e.store.Put(ctx, src); err != nil {
			return nil, fmt.Errorf("removing moved block from %q after writing %q: %w", req.SourceDocument, target.Document, err)
		}
	}

	insStart := insertAt
	if sameDoc && insertAt > endLine {
		insStart -= removed
	}

	e.logger.Info("refile complete",
		"source", req.SourceDocument,
		"target", target.Document,
		"heading", target.Heading,
		"lines", removed,
	)

	return &Result{
		SourceDocument: req.SourceDocument,
		TargetDocument: target.Document,
		TargetHeading:  target.Heading,
		TargetDepth:    target.Depth,
		InsertedStart:  insStart,
		InsertedEnd:    insStart + len(insert) - 1,
		LinesMoved:     removed,
	}, nil
}

// pickTarget defers to the configured picker. A nil target with nil error
// means the user cancelled.
func (e *Engine) pickTarget(ctx context.Context) (*Target, error) {
	if e.picker == nil {
		return nil, picker.ErrUnavailable
	}
	sel, err := e.picker.Pick(ctx)
	if err != nil {
		return nil, fmt.Errorf("picking target: %w", err)
	}
	if sel == nil {
		return nil, nil
	}
	target, err := ParseTarget(sel.DocumentID, sel.Line)
	if err != nil {
		return nil, fmt.Errorf("parsing picked target: %w", err)
	}
	return target, nil
}
