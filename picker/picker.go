// Package picker is the target-selection capability: when a refile request
// carries no explicit target, the engine asks a Picker for one. Selection is
// a discriminated outcome — chosen, cancelled, or unavailable — rather than
// an exception path.
package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/joeychilson/refiler/document"
	"github.com/joeychilson/refiler/outline"
	"github.com/joeychilson/refiler/store"
)

// ErrUnavailable means the host provides no interactive picker. Callers may
// still refile by supplying an explicit target.
var ErrUnavailable = errors.New("target picker unavailable")

// Selection is a chosen refile target: the owning document and the raw
// heading line the user picked.
type Selection struct {
	DocumentID string
	Line       string
}

// Picker asks for a refile target.
type Picker interface {
	// Pick returns the chosen target, (nil, nil) when the user cancelled,
	// or ErrUnavailable when no selection mechanism exists.
	Pick(ctx context.Context) (*Selection, error)
}

// Candidate is one selectable heading.
type Candidate struct {
	DocumentID string `json:"document_id"`
	Line       string `json:"line"`
	LineNo     int    `json:"line_no"`
	Depth      int    `json:"depth"`
	Title      string `json:"title"`
}

// Chooser picks one candidate index, or a negative index to cancel.
type Chooser func(candidates []Candidate) int

// StorePicker offers every heading of every document in a store. The actual
// choice is delegated to an injected Chooser so hosts can plug in whatever
// interaction they have.
type StorePicker struct {
	store  store.Store
	choose Chooser
}

// NewStorePicker creates a picker over the given store.
func NewStorePicker(s store.Store, choose Chooser) *StorePicker {
	return &StorePicker{store: s, choose: choose}
}

// Pick gathers candidates and defers to the Chooser.
func (p *StorePicker) Pick(ctx context.Context) (*Selection, error) {
	if p.choose == nil {
		return nil, ErrUnavailable
	}
	candidates, err := Candidates(ctx, p.store)
	if err != nil {
		return nil, err
	}
	idx := p.choose(candidates)
	if idx < 0 || idx >= len(candidates) {
		return nil, nil
	}
	chosen := candidates[idx]
	return &Selection{DocumentID: chosen.DocumentID, Line: chosen.Line}, nil
}

// Candidates lists every heading of every document in the store, in document
// order per document.
func Candidates(ctx context.Context, s store.Store) ([]Candidate, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	var candidates []Candidate
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reading document %q: %w", id, err)
		}
		headings, err := outline.Headings(document.Parse(doc.Content))
		if err != nil {
			return nil, fmt.Errorf("scanning document %q: %w", id, err)
		}
		for _, h := range headings {
			candidates = append(candidates, Candidate{
				DocumentID: id,
				Line:       h.Raw(),
				LineNo:     h.Line(),
				Depth:      h.Depth,
				Title:      h.Text,
			})
		}
	}
	return candidates, nil
}
