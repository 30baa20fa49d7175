package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeychilson/refiler/document"
	"github.com/joeychilson/refiler/outline"
)

func TestImport(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		out, err := New().Import(nil)
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})

	t.Run("headings become markdown headings", func(t *testing.T) {
		out, err := New().Import([]byte("<h1>Notes</h1><h2>Tasks</h2><p>do the thing</p>"))
		require.NoError(t, err)
		assert.Contains(t, out, "# Notes")
		assert.Contains(t, out, "## Tasks")
		assert.Contains(t, out, "do the thing")
	})

	t.Run("scripts and styling are stripped", func(t *testing.T) {
		out, err := New().Import([]byte(`<h1>Safe</h1><script>alert(1)</script><span style="color:red">text</span>`))
		require.NoError(t, err)
		assert.Contains(t, out, "# Safe")
		assert.NotContains(t, out, "alert")
		assert.NotContains(t, out, "style")
	})

	t.Run("lists survive conversion", func(t *testing.T) {
		out, err := New().Import([]byte("<ul><li>alpha</li><li>beta</li></ul>"))
		require.NoError(t, err)
		assert.Contains(t, out, "alpha")
		assert.Contains(t, out, "beta")
		assert.True(t, strings.Contains(out, "- alpha") || strings.Contains(out, "* alpha"),
			"expected a list marker in %q", out)
	})

	t.Run("imported content is refilable", func(t *testing.T) {
		out, err := New().Import([]byte("<h1>Inbox</h1><h2>Task</h2><p>body</p>"))
		require.NoError(t, err)

		headings, err := outline.Headings(document.Parse(out))
		require.NoError(t, err)
		require.NotEmpty(t, headings)
		assert.Equal(t, "Inbox", headings[0].Text)
	})
}
