package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/atinylittleshell/diskcomplete/internal/bash"
	"github.com/atinylittleshell/diskcomplete/internal/completion"
	"github.com/atinylittleshell/diskcomplete/internal/config"
	"github.com/atinylittleshell/diskcomplete/internal/core"
	"github.com/atinylittleshell/diskcomplete/internal/devices"
	"github.com/atinylittleshell/diskcomplete/internal/environment"
	"github.com/atinylittleshell/diskcomplete/internal/shellscript"
	"go.uber.org/zap"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/expand"
)

var BUILD_VERSION = "dev"

var scriptFlag = flag.Bool("script", false, "print the bash completion script for diskutil")
var binFlag = flag.String("bin", "", "helper path used by -script (defaults to this executable)")
var simulateFlag = flag.String("simulate", "", "show what bash would complete for a command line, e.g. \"diskutil eject \"")
var devicesFlag = flag.Bool("devices", false, "list the devices offered for completion")
var configFlag = flag.String("config", "", "config file (default "+core.ConfigFile()+")")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `diskcomplete - bash completion helper for diskutil

USAGE:
  eval "$(diskcomplete -script)"      Install completion for diskutil in bash
  diskcomplete                        Answer a completion request (COMP_WORDS, COMP_CWORD)
  diskcomplete -simulate "diskutil "  Show what bash would offer for a line
  diskcomplete -devices               List the devices diskutil reports

ENVIRONMENT:
  DISKCOMPLETE_DEBUG, DISKCOMPLETE_CACHE, DISKCOMPLETE_CACHE_FILE,
  DISKCOMPLETE_DEBUG_LOG, DISKCOMPLETE_DISKUTIL, DISKCOMPLETE_TIMEOUT,
  DISKCOMPLETE_EXCLUDE_POLICY

OPTIONS:
`

// app holds the wired components for one invocation.
type app struct {
	config   *config.Config
	logger   *zap.Logger
	lister   *devices.CachedLister
	resolver *completion.Resolver
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	env := expand.ListEnviron(os.Environ()...)

	configPath := *configFlag
	if configPath == "" {
		configPath = core.ConfigFile()
	}

	a, err := initializeApp(env, configPath)
	if err != nil {
		// never break the shell that invoked us
		fmt.Println()
		return
	}
	a.logger.Debug("-------- new diskcomplete invocation --------", zap.Strings("args", os.Args))

	code := run(context.Background(), a, env, os.Stdout)
	a.logger.Sync() //nolint:errcheck
	os.Exit(code)
}

func run(ctx context.Context, a *app, env expand.Environ, stdout io.Writer) int {
	switch {
	case *scriptFlag:
		return runScript(stdout, helperPath(*binFlag))
	case *simulateFlag != "":
		return runSimulate(ctx, a, *simulateFlag, stdout)
	case *devicesFlag:
		return runDevices(ctx, a, stdout)
	}

	if !environment.HasCompletionRequest(env) && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprint(stdout, helpText)
		flag.CommandLine.SetOutput(stdout)
		flag.PrintDefaults()
		return 0
	}

	return runCompletion(ctx, a, env, stdout)
}

// runCompletion answers one request from the shell. It always exits 0.
func runCompletion(ctx context.Context, a *app, env expand.Environ, stdout io.Writer) int {
	req, err := completion.RequestFromEnv(env)
	if err != nil {
		a.logger.Debug("no usable completion request", zap.Error(err))
		fmt.Fprintln(stdout)
		return 0
	}

	result := a.resolver.Resolve(ctx, req)
	if result.Halted() {
		a.logger.Debug("no completions")
		return 0
	}

	a.logger.Debug("final", zap.String("line", result.String()))
	fmt.Fprintln(stdout, result.String())
	return 0
}

func runScript(stdout io.Writer, helper string) int {
	if err := shellscript.Render(stdout, helper); err != nil {
		fmt.Fprintf(os.Stderr, "diskcomplete: %v\n", err)
		return 1
	}
	return 0
}

func runSimulate(ctx context.Context, a *app, line string, stdout io.Writer) int {
	var script bytes.Buffer
	if err := shellscript.Render(&script, completion.HelperName); err != nil {
		fmt.Fprintf(os.Stderr, "diskcomplete: %v\n", err)
		return 1
	}

	sim, err := completion.NewSimulator(ctx, &script, completion.HelperName, a.resolver, a.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "diskcomplete: %v\n", err)
		return 1
	}

	replies, err := sim.Complete(ctx, line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "diskcomplete: %v\n", err)
		return 1
	}

	for _, reply := range replies {
		fmt.Fprintln(stdout, reply)
	}
	return 0
}

func runDevices(ctx context.Context, a *app, stdout io.Writer) int {
	listing, err := a.lister.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "diskcomplete: %v\n", err)
		return 1
	}

	for _, device := range devices.FormatDevices(listing, "") {
		fmt.Fprintln(stdout, device)
	}
	return 0
}

// helperPath is the command the rendered script should call.
func helperPath(bin string) string {
	if bin != "" {
		return bin
	}
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return completion.HelperName
}

func initializeApp(env expand.Environ, configPath string) (*app, error) {
	loaded := config.NewLoader(env).Load(configPath)
	cfg := loaded.Config

	logger, err := initializeLogger(cfg)
	if err != nil {
		logger = zap.NewNop()
	}
	for _, loadErr := range loaded.Errors {
		logger.Debug("config problem", zap.Error(loadErr))
	}

	runner, err := bash.NewRunner(env, nil, nil)
	if err != nil {
		return nil, err
	}

	lister := devices.NewCachedLister(
		devices.NewDiskutilLister(runner, cfg.Diskutil, cfg.Timeout, logger),
		cfg.CacheFile,
		cfg.UseCache,
		logger,
	)

	resolver := completion.NewResolver(completion.Options{
		Registry:      completion.NewVerbRegistry(completion.DefaultVerbs()...),
		Lister:        lister,
		Cache:         lister,
		Logger:        logger,
		ExcludePolicy: cfg.ExcludePolicy,
	})

	return &app{
		config:   cfg,
		logger:   logger,
		lister:   lister,
		resolver: resolver,
	}, nil
}

// initializeLogger appends JSON trace lines to the debug log when debugging
// is enabled and discards everything otherwise.
func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	if !cfg.Debug {
		return zap.NewNop(), nil
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	loggerConfig.Sampling = nil
	loggerConfig.OutputPaths = []string{
		cfg.DebugLogFile,
	}
	// stderr would end up in the middle of the user's command line
	loggerConfig.ErrorOutputPaths = []string{
		cfg.DebugLogFile,
	}

	return loggerConfig.Build()
}
