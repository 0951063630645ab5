package completion

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/atinylittleshell/diskcomplete/internal/bash"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// HelperName is the command the bash completion function invokes.
const HelperName = "diskcomplete"

// NewHelperExecHandler answers invocations of helper inside an interpreter
// with the resolver, reading the request from the command's environment
// exactly like the real binary does.
func NewHelperExecHandler(helper string, resolver *Resolver) bash.ExecMiddleware {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 || !isHelper(args[0], helper) {
				return next(ctx, args)
			}

			hc := interp.HandlerCtx(ctx)
			req, err := RequestFromEnv(hc.Env)
			if err != nil {
				fmt.Fprintln(hc.Stdout)
				return nil
			}

			result := resolver.Resolve(ctx, req)
			if !result.Halted() {
				fmt.Fprintln(hc.Stdout, result.String())
			}
			return nil
		}
	}
}

func isHelper(arg, helper string) bool {
	return arg == helper || filepath.Base(arg) == filepath.Base(helper)
}

// Simulator sources a completion script into an interpreter and replays
// completion requests against it, without a real bash or diskutil binary.
type Simulator struct {
	runner *interp.Runner
	specs  *SpecRegistry
	logger *zap.Logger
}

// NewSimulator loads script, whose helper invocations are served by resolver.
func NewSimulator(ctx context.Context, script io.Reader, helper string, resolver *Resolver, logger *zap.Logger) (*Simulator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	specs := NewSpecRegistry()
	runner, err := bash.NewRunner(
		expand.ListEnviron(),
		io.Discard,
		io.Discard,
		NewCompleteCommandHandler(specs),
		NewHelperExecHandler(helper, resolver),
	)
	if err != nil {
		return nil, err
	}

	if err := bash.RunBashScriptFromReader(ctx, runner, script, "completion.bash"); err != nil {
		return nil, fmt.Errorf("failed to load completion script: %w", err)
	}

	return &Simulator{
		runner: runner,
		specs:  specs,
		logger: logger,
	}, nil
}

// Specs exposes the registrations made by the script.
func (s *Simulator) Specs() *SpecRegistry {
	return s.specs
}

// Complete returns what bash would put in COMPREPLY for line with the cursor
// at its end. A trailing space starts a fresh word.
func (s *Simulator) Complete(ctx context.Context, line string) ([]string, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil, fmt.Errorf("nothing to complete")
	}
	if strings.HasSuffix(line, " ") {
		words = append(words, "")
	}

	spec, ok := s.specs.GetSpec(words[0])
	if !ok {
		return nil, fmt.Errorf("no completion registered for %q", words[0])
	}

	s.logger.Debug("simulating completion", zap.String("function", spec.Function), zap.Strings("words", words))
	return NewCompletionFunction(spec.Function, s.runner).Execute(ctx, words)
}
