package shellscript

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/syntax"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "diskcomplete"))

	out := buf.String()
	assert.Contains(t, out, "_diskutil_complete()")
	assert.Contains(t, out, "complete -F _diskutil_complete diskutil")
	assert.Contains(t, out, "diskcomplete")
	assert.Contains(t, out, "# bash completion for diskutil")
	assert.NotContains(t, out, helperPlaceholder)
}

func TestRenderQuotesHelperPath(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "/Users/me/my tools/diskcomplete"))

	out := buf.String()
	assert.Contains(t, out, "my tools/diskcomplete")
	assert.NotContains(t, out, " /Users/me/my tools/diskcomplete")

	file, err := syntax.NewParser().Parse(strings.NewReader(out), "")
	require.NoError(t, err)

	var found bool
	syntax.Walk(file, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		if lit := call.Args[0].Lit(); lit == "" {
			// a quoted word has no plain literal form
			var printed bytes.Buffer
			require.NoError(t, syntax.NewPrinter().Print(&printed, call.Args[0]))
			if strings.Contains(printed.String(), "my tools/diskcomplete") {
				found = true
			}
		}
		return true
	})
	assert.True(t, found, "helper path should be a single quoted word")
}

func TestRenderIsStable(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Render(&first, "diskcomplete"))
	require.NoError(t, Render(&second, "diskcomplete"))
	assert.Equal(t, first.String(), second.String())
}
