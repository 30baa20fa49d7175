package refile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeychilson/refiler/document"
	"github.com/joeychilson/refiler/outline"
)

func headingsOf(t *testing.T, content string) []outline.Heading {
	t.Helper()
	headings, err := outline.Headings(document.Parse(content))
	require.NoError(t, err)
	return headings
}

func TestFindTarget(t *testing.T) {
	headings := headingsOf(t, "# Tasks\n\n## Done\n\n# Tasks\n")

	t.Run("first match wins", func(t *testing.T) {
		h := FindTarget(headings, "Tasks", 1)
		require.NotNil(t, h)
		assert.Equal(t, 1, h.Line())
	})

	t.Run("depth must match exactly", func(t *testing.T) {
		assert.Nil(t, FindTarget(headings, "Done", 1))
		h := FindTarget(headings, "Done", 2)
		require.NotNil(t, h)
		assert.Equal(t, 3, h.Line())
	})

	t.Run("title must match exactly", func(t *testing.T) {
		assert.Nil(t, FindTarget(headings, "task", 1))
		assert.Nil(t, FindTarget(headings, "Tasks ", 1))
	})
}

func TestFindTargetStrict(t *testing.T) {
	headings := headingsOf(t, "# Tasks\n\n## Done\n\n# Tasks\n")

	t.Run("unique match resolves", func(t *testing.T) {
		h, err := FindTargetStrict(headings, "Done", 2)
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.Equal(t, 3, h.Line())
	})

	t.Run("duplicate match is rejected", func(t *testing.T) {
		_, err := FindTargetStrict(headings, "Tasks", 1)
		assert.ErrorIs(t, err, ErrAmbiguousTarget)
	})

	t.Run("no match is nil without error", func(t *testing.T) {
		h, err := FindTargetStrict(headings, "Missing", 1)
		require.NoError(t, err)
		assert.Nil(t, h)
	})
}

func TestParseTarget(t *testing.T) {
	t.Run("heading line", func(t *testing.T) {
		target, err := ParseTarget("work.md", "## Done")
		require.NoError(t, err)
		assert.Equal(t, &Target{Document: "work.md", Heading: "Done", Depth: 2}, target)
	})

	t.Run("non-heading line", func(t *testing.T) {
		_, err := ParseTarget("work.md", "plain text")
		assert.Error(t, err)
	})
}
