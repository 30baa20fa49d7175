package picker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeychilson/refiler/store"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, &store.Document{
		ID:      "work.md",
		Content: "# Work\n\n## Backlog\n\n## Done\n",
	}))
	return s
}

func TestCandidates(t *testing.T) {
	s := seedStore(t)

	candidates, err := Candidates(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "work.md", candidates[0].DocumentID)
	assert.Equal(t, "# Work", candidates[0].Line)
	assert.Equal(t, 1, candidates[0].Depth)
	assert.Equal(t, "Backlog", candidates[1].Title)
	assert.Equal(t, 3, candidates[1].LineNo)
}

func TestStorePickerPick(t *testing.T) {
	s := seedStore(t)

	p := NewStorePicker(s, func(candidates []Candidate) int {
		for i, c := range candidates {
			if c.Title == "Backlog" {
				return i
			}
		}
		return -1
	})

	sel, err := p.Pick(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "work.md", sel.DocumentID)
	assert.Equal(t, "## Backlog", sel.Line)
}

func TestStorePickerCancel(t *testing.T) {
	s := seedStore(t)

	p := NewStorePicker(s, func([]Candidate) int { return -1 })
	sel, err := p.Pick(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sel)
}

func TestStorePickerUnavailable(t *testing.T) {
	s := seedStore(t)

	p := NewStorePicker(s, nil)
	_, err := p.Pick(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
