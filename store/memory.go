package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory document store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*Document),
	}
}

// Get returns a copy of the stored document, or ErrNotFound.
func (ms *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	ms.mu.RLock()
	doc, exists := ms.docs[id]
	ms.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}
	docCopy := *doc
	return &docCopy, nil
}

// Put creates or replaces a document, stamping UpdatedAt when unset.
func (ms *MemoryStore) Put(ctx context.Context, doc *Document) error {
	docCopy := *doc
	if docCopy.UpdatedAt.IsZero() {
		docCopy.UpdatedAt = time.Now()
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.docs[docCopy.ID] = &docCopy
	return nil
}

// Delete removes a document.
func (ms *MemoryStore) Delete(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.docs, id)
	return nil
}

// List returns all document IDs.
func (ms *MemoryStore) List(ctx context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ids := make([]string, 0, len(ms.docs))
	for id := range ms.docs {
		ids = append(ids, id)
	}
	return ids, nil
}
