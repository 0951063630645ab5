package completion

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/interp"
)

// NewCompleteCommandHandler creates an ExecHandler middleware implementing
// the subset of bash's `complete` builtin that completion scripts use:
// -F function, -r, -p and -o option.
func NewCompleteCommandHandler(registry *SpecRegistry) func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 || args[0] != "complete" {
				return next(ctx, args)
			}

			return handleCompleteCommand(interp.HandlerCtx(ctx).Stdout, registry, args[1:])
		}
	}
}

func handleCompleteCommand(out io.Writer, registry *SpecRegistry, args []string) error {
	if len(args) == 0 {
		return printCompletionSpecs(out, registry, nil)
	}

	var (
		printMode  bool
		removeMode bool
		function   string
		options    []string
		commands   []string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-p":
			printMode = true
		case "-r":
			removeMode = true
		case "-F":
			if i+1 >= len(args) {
				return fmt.Errorf("option -F requires a function name")
			}
			i++
			function = args[i]
		case "-o":
			if i+1 >= len(args) {
				return fmt.Errorf("option -o requires an option name")
			}
			i++
			options = append(options, args[i])
		default:
			if strings.HasPrefix(arg, "-") {
				return fmt.Errorf("unknown option: %s", arg)
			}
			commands = append(commands, arg)
		}
	}

	switch {
	case printMode:
		return printCompletionSpecs(out, registry, commands)
	case len(commands) == 0:
		return fmt.Errorf("no command specified")
	case removeMode:
		for _, command := range commands {
			registry.RemoveSpec(command)
		}
		return nil
	case function != "":
		for _, command := range commands {
			registry.AddSpec(CompletionSpec{
				Command:  command,
				Function: function,
				Options:  options,
			})
		}
		return nil
	}

	return fmt.Errorf("invalid complete command usage")
}

func printCompletionSpecs(out io.Writer, registry *SpecRegistry, commands []string) error {
	if len(commands) == 0 {
		for _, spec := range registry.ListSpecs() {
			printCompletionSpec(out, spec)
		}
		return nil
	}

	for _, command := range commands {
		if spec, ok := registry.GetSpec(command); ok {
			printCompletionSpec(out, spec)
		}
	}
	return nil
}

func printCompletionSpec(out io.Writer, spec CompletionSpec) {
	var b strings.Builder
	b.WriteString("complete")
	for _, opt := range spec.Options {
		b.WriteString(" -o " + opt)
	}
	fmt.Fprintf(out, "%s -F %s %s\n", b.String(), spec.Function, spec.Command)
}
