package config

import (
	"fmt"
	"os"

	"github.com/atinylittleshell/diskcomplete/internal/environment"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/expand"
)

// Loader builds a Config from a YAML file and environment overrides.
type Loader struct {
	env expand.Environ
}

// NewLoader creates a new configuration loader reading overrides from env.
func NewLoader(env expand.Environ) *Loader {
	return &Loader{
		env: env,
	}
}

// LoadResult contains the result of loading configuration.
// Errors are non-fatal: the offending value is replaced by its default.
type LoadResult struct {
	Config *Config
	Errors []error
}

// Load reads path (a missing file is not an error), applies environment
// overrides and validates the result. It always returns a usable Config.
func (l *Loader) Load(path string) *LoadResult {
	result := &LoadResult{
		Config: DefaultConfig(),
		Errors: []error{},
	}

	if path != "" {
		if err := l.loadFile(path, result.Config); err != nil {
			result.Errors = append(result.Errors, err)
			result.Config = DefaultConfig()
		}
	}

	result.Errors = append(result.Errors, l.applyEnv(result.Config)...)
	result.Errors = append(result.Errors, result.Config.Validate()...)

	return result
}

// LoadFromString parses YAML into a config seeded with defaults.
func (l *Loader) LoadFromString(source string) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(source), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (l *Loader) loadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (l *Loader) applyEnv(cfg *Config) []error {
	if l.env == nil {
		return nil
	}

	var errs []error

	if v, ok, err := environment.GetBool(l.env, environment.Debug); err != nil {
		errs = append(errs, err)
	} else if ok {
		cfg.Debug = v
	}

	if v, ok, err := environment.GetBool(l.env, environment.UseCache); err != nil {
		errs = append(errs, err)
	} else if ok {
		cfg.UseCache = v
	}

	if v, ok, err := environment.GetDuration(l.env, environment.Timeout); err != nil {
		errs = append(errs, err)
	} else if ok {
		cfg.Timeout = v
	}

	if v, ok := environment.GetString(l.env, environment.CacheFile); ok {
		cfg.CacheFile = v
	}
	if v, ok := environment.GetString(l.env, environment.DebugLogFile); ok {
		cfg.DebugLogFile = v
	}
	if v, ok := environment.GetString(l.env, environment.Diskutil); ok {
		cfg.Diskutil = v
	}
	if v, ok := environment.GetString(l.env, environment.ExcludePolicy); ok {
		cfg.ExcludePolicy = ExcludePolicy(v)
	}

	return errs
}
