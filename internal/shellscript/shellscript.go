// Package shellscript renders the bash snippet that hooks diskcomplete into
// bash's programmable completion for diskutil.
package shellscript

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

//go:embed diskutil-completion.bash
var completionTemplate string

const helperPlaceholder = "@HELPER@"

// Render writes the completion script with helper as the command it invokes.
// The result is parsed and reprinted, so a helper path that would break the
// script is reported here rather than in the user's shell.
func Render(w io.Writer, helper string) error {
	quoted, err := syntax.Quote(helper, syntax.LangBash)
	if err != nil {
		return fmt.Errorf("cannot quote helper path %q: %w", helper, err)
	}

	source := strings.ReplaceAll(completionTemplate, helperPlaceholder, quoted)

	parser := syntax.NewParser(syntax.KeepComments(true), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(source), "diskutil-completion.bash")
	if err != nil {
		return fmt.Errorf("failed to parse completion script: %w", err)
	}

	return syntax.NewPrinter(syntax.Indent(4)).Print(w, file)
}
