// Package store holds document buffers by identifier. The refile engine and
// the HTTP handlers go through the Store interface; backends exist for
// in-memory use and Redis.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document identifier resolves to nothing.
var ErrNotFound = errors.New("document not found")

// Document is one stored outline document. Content is the full markdown
// text; structure is always derived fresh by parsing, never persisted.
type Document struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the document-access capability. Implementations must be safe for
// concurrent use; callers serialize writes to a given document themselves.
type Store interface {
	// Get returns the document with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Document, error)
	// Put creates or replaces a document.
	Put(ctx context.Context, doc *Document) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error
	// List returns all document IDs in unspecified order.
	List(ctx context.Context) ([]string, error)
}
