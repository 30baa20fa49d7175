package refile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeychilson/refiler/picker"
	"github.com/joeychilson/refiler/reindent"
	"github.com/joeychilson/refiler/store"
)

func setupStore(t *testing.T, docs map[string]string) store.Store {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()
	for id, body := range docs {
		require.NoError(t, s.Put(ctx, &store.Document{ID: id, Content: body}))
	}
	return s
}

func getContent(t *testing.T, s store.Store, id string) string {
	t.Helper()
	doc, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	return doc.Content
}

func TestRefileAcrossDocuments(t *testing.T) {
	s := setupStore(t, map[string]string{
		"notes.md":   "# Notes\n\n## Task A\n\nbody line\n\n## Task B\n",
		"archive.md": "# Archive\n\n## Old\n",
	})
	e := NewEngine(s, nil)

	res, err := e.Refile(context.Background(), &Request{
		SourceDocument: "notes.md",
		Position:       Position{Line: 5, Column: 0},
		Target:         &Target{Document: "archive.md", Heading: "Archive", Depth: 1},
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "# Notes\n\n## Task B\n", getContent(t, s, "notes.md"))
	assert.Equal(t, "# Archive\n## Task A\n\nbody line\n\n\n## Old\n", getContent(t, s, "archive.md"))

	assert.Equal(t, "archive.md", res.TargetDocument)
	assert.Equal(t, "Archive", res.TargetHeading)
	assert.Equal(t, 1, res.TargetDepth)
	assert.Equal(t, 2, res.InsertedStart)
	assert.Equal(t, 5, res.InsertedEnd)
	assert.Equal(t, 4, res.LinesMoved)
}

func TestRefileNormalizesLevels(t *testing.T) {
	s := setupStore(t, map[string]string{
		"src.md": "# X\n\n## Y\n",
		"dst.md": "# T\n\n## Sub\n",
	})
	e := NewEngine(s, nil)

	res, err := e.Refile(context.Background(), &Request{
		SourceDocument: "src.md",
		Position:       Position{Line: 1, Column: 0},
		Target:         &Target{Document: "dst.md", Heading: "Sub", Depth: 2},
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "", getContent(t, s, "src.md"))
	assert.Equal(t, "# T\n\n## Sub\n### X\n\n#### Y\n", getContent(t, s, "dst.md"))
}

func TestRefileSameDocument(t *testing.T) {
	s := setupStore(t, map[string]string{
		"work.md": "# Inbox\n\n## Todo\n\ntask body\n\n# Archive\n",
	})
	e := NewEngine(s, nil)

	res, err := e.Refile(context.Background(), &Request{
		SourceDocument: "work.md",
		Position:       Position{Line: 3, Column: 0},
		Target:         &Target{Document: "work.md", Heading: "Archive", Depth: 1},
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "# Inbox\n\n# Archive\n## Todo\n\ntask body\n\n", getContent(t, s, "work.md"))
	assert.Equal(t, 4, res.InsertedStart)
	assert.Equal(t, 7, res.InsertedEnd)
}

func TestRefileTargetNotFoundLeavesSourceUntouched(t *testing.T) {
	before := "# Notes\n\n## Task A\n\nbody line\n"
	s := setupStore(t, map[string]string{
		"notes.md":   before,
		"archive.md": "# Archive\n",
	})
	e := NewEngine(s, nil)

	_, err := e.Refile(context.Background(), &Request{
		SourceDocument: "notes.md",
		Position:       Position{Line: 3, Column: 0},
		Target:         &Target{Document: "archive.md", Heading: "Missing", Depth: 2},
	})
	assert.ErrorIs(t, err, ErrTargetNotFound)
	assert.Equal(t, before, getContent(t, s, "notes.md"))
	assert.Equal(t, "# Archive\n", getContent(t, s, "archive.md"))
}

func TestRefileNoRefilableNode(t *testing.T) {
	s := setupStore(t, map[string]string{
		"plain.md": "just text\n\nmore text\n",
	})
	e := NewEngine(s, nil)

	_, err := e.Refile(context.Background(), &Request{
		SourceDocument: "plain.md",
		Position:       Position{Line: 1, Column: 0},
		Target:         &Target{Document: "plain.md", Heading: "X", Depth: 1},
	})
	assert.ErrorIs(t, err, ErrNoRefilableNode)
}

func TestRefileSourceNotFound(t *testing.T) {
	s := setupStore(t, nil)
	e := NewEngine(s, nil)

	_, err := e.Refile(context.Background(), &Request{
		SourceDocument: "missing.md",
		Position:       Position{Line: 1, Column: 0},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRefileTargetWithinSource(t *testing.T) {
	before := "# A\n\n## B\n\n### C\n"
	s := setupStore(t, map[string]string{"doc.md": before})
	e := NewEngine(s, nil)

	_, err := e.Refile(context.Background(), &Request{
		SourceDocument: "doc.md",
		Position:       Position{Line: 3, Column: 0},
		Target:         &Target{Document: "doc.md", Heading: "C", Depth: 3},
	})
	assert.ErrorIs(t, err, ErrTargetWithinSource)
	assert.Equal(t, before, getContent(t, s, "doc.md"))
}

func TestRefileDepthExceeded(t *testing.T) {
	s := setupStore(t, map[string]string{
		"src.md": "# Top\n\n## X\n\n### Y\n",
		"dst.md": "###### Deep\n",
	})
	e := NewEngine(s, nil)

	_, err := e.Refile(context.Background(), &Request{
		SourceDocument: "src.md",
		Position:       Position{Line: 3, Column: 0},
		Target:         &Target{Document: "dst.md", Heading: "Deep", Depth: 6},
	})
	assert.ErrorIs(t, err, ErrDepthExceeded)
	assert.Equal(t, "###### Deep\n", getContent(t, s, "dst.md"))
}

func TestRefileStrictTargets(t *testing.T) {
	before := "# Notes\n\n## Task A\n"
	s := setupStore(t, map[string]string{
		"notes.md":   before,
		"archive.md": "# Tasks\n\n# Tasks\n",
	})
	e := NewEngine(s, &Options{StrictTargets: true})

	_, err := e.Refile(context.Background(), &Request{
		SourceDocument: "notes.md",
		Position:       Position{Line: 3, Column: 0},
		Target:         &Target{Document: "archive.md", Heading: "Tasks", Depth: 1},
	})
	assert.ErrorIs(t, err, ErrAmbiguousTarget)
	assert.Equal(t, before, getContent(t, s, "notes.md"))
}

func TestRefilePickerUnavailable(t *testing.T) {
	s := setupStore(t, map[string]string{"notes.md": "# Notes\n\n## Task A\n"})
	e := NewEngine(s, nil)

	_, err := e.Refile(context.Background(), &Request{
		SourceDocument: "notes.md",
		Position:       Position{Line: 3, Column: 0},
	})
	assert.ErrorIs(t, err, picker.ErrUnavailable)
}

func TestRefilePickerCancel(t *testing.T) {
	before := "# Notes\n\n## Task A\n"
	s := setupStore(t, map[string]string{"notes.md": before})
	e := NewEngine(s, &Options{
		Picker: picker.NewStorePicker(s, func([]picker.Candidate) int { return -1 }),
	})

	res, err := e.Refile(context.Background(), &Request{
		SourceDocument: "notes.md",
		Position:       Position{Line: 3, Column: 0},
	})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, before, getContent(t, s, "notes.md"))
}

func TestRefileViaPicker(t *testing.T) {
	s := setupStore(t, map[string]string{
		"notes.md":   "# Notes\n\n## Task A\n\nbody line\n",
		"archive.md": "# Archive\n",
	})
	e := NewEngine(s, &Options{
		Picker: picker.NewStorePicker(s, func(candidates []picker.Candidate) int {
			for i, c := range candidates {
				if c.DocumentID == "archive.md" && c.Title == "Archive" {
					return i
				}
			}
			return -1
		}),
	})

	res, err := e.Refile(context.Background(), &Request{
		SourceDocument: "notes.md",
		Position:       Position{Line: 5, Column: 0},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "archive.md", res.TargetDocument)
	assert.Equal(t, "# Archive\n## Task A\n\nbody line\n", getContent(t, s, "archive.md"))
	assert.Equal(t, "# Notes\n\n", getContent(t, s, "notes.md"))
}

func TestRefileReindentsListItems(t *testing.T) {
	s := setupStore(t, map[string]string{
		"list.md":  "# List\n\n- alpha\n    - beta\n",
		"other.md": "# Other\n",
	})
	e := NewEngine(s, &Options{Reindenter: reindent.ListReindenter{Unit: 2}})

	res, err := e.Refile(context.Background(), &Request{
		SourceDocument: "list.md",
		Position:       Position{Line: 3, Column: 0},
		Target:         &Target{Document: "other.md", Heading: "Other", Depth: 1},
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "# Other\n- alpha\n  - beta\n", getContent(t, s, "other.md"))
	assert.Equal(t, "# List\n\n", getContent(t, s, "list.md"))
	assert.Equal(t, 2, res.LinesMoved)
}

type failingReindenter struct{}

func (failingReindenter) Reindent([]string) ([]string, error) {
	return nil, errors.New("indentation rules unavailable")
}

func TestRefileReindentFailureIsNonFatal(t *testing.T) {
	s := setupStore(t, map[string]string{
		"list.md":  "# List\n\n- alpha\n  - beta\n",
		"other.md": "# Other\n",
	})
	e := NewEngine(s, &Options{Reindenter: failingReindenter{}})

	res, err := e.Refile(context.Background(), &Request{
		SourceDocument: "list.md",
		Position:       Position{Line: 3, Column: 0},
		Target:         &Target{Document: "other.md", Heading: "Other", Depth: 1},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "# Other\n- alpha\n  - beta\n", getContent(t, s, "other.md"))
}
