package completion

import (
	"context"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// CompletionFunction represents a bash completion function.
type CompletionFunction struct {
	Name   string
	Runner *interp.Runner
}

// NewCompletionFunction creates a new CompletionFunction.
func NewCompletionFunction(name string, runner *interp.Runner) *CompletionFunction {
	return &CompletionFunction{
		Name:   name,
		Runner: runner,
	}
}

// Execute runs the completion function the way bash would for words, the
// last of which is being completed, and returns COMPREPLY.
func (f *CompletionFunction) Execute(ctx context.Context, words []string) ([]string, error) {
	quoted := make([]string, len(words))
	for i, w := range words {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			return nil, fmt.Errorf("cannot quote word %q: %w", w, err)
		}
		quoted[i] = q
	}

	line := strings.Join(words, " ")
	quotedLine, err := syntax.Quote(line, syntax.LangBash)
	if err != nil {
		return nil, fmt.Errorf("cannot quote line %q: %w", line, err)
	}

	script := fmt.Sprintf(`
		COMP_LINE=%s
		COMP_POINT=%d
		COMP_WORDS=(%s)
		COMP_CWORD=%d
		COMPREPLY=()
		%s
	`,
		quotedLine,
		len(line),
		strings.Join(quoted, " "),
		len(words)-1,
		f.Name,
	)

	file, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse completion script: %w", err)
	}

	if err := f.Runner.Run(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to execute completion function: %w", err)
	}

	compreply, ok := f.Runner.Vars["COMPREPLY"]
	if !ok || compreply.Kind != expand.Indexed {
		return []string{}, nil
	}

	return append([]string{}, compreply.List...), nil
}
