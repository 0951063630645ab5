// Package config provides configuration management for diskcomplete.
// Values start from DefaultConfig, are overlaid by an optional YAML file, and
// finally by DISKCOMPLETE_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/atinylittleshell/diskcomplete/internal/core"
)

// ExcludePolicy selects which earlier words suppress an option from being
// suggested again.
type ExcludePolicy string

const (
	// ExcludeLegacy only treats words before the two most recent ones as used.
	ExcludeLegacy ExcludePolicy = "legacy"
	// ExcludeUsed suppresses any option present anywhere on the line except
	// the word being completed.
	ExcludeUsed ExcludePolicy = "used"
)

const (
	DefaultDiskutil = "diskutil"
	DefaultTimeout  = 5 * time.Second
)

// Config holds everything the resolver and its collaborators need.
type Config struct {
	// Debug appends trace lines to DebugLogFile.
	Debug bool `yaml:"debug"`

	// UseCache stores the disk listing in CacheFile between invocations.
	UseCache bool `yaml:"use_cache"`

	CacheFile    string `yaml:"cache_file"`
	DebugLogFile string `yaml:"debug_log_file"`

	// Diskutil is the disk enumeration utility, looked up in PATH when not absolute.
	Diskutil string `yaml:"diskutil"`

	// Timeout bounds a single diskutil invocation. Zero disables the limit.
	Timeout time.Duration `yaml:"timeout"`

	ExcludePolicy ExcludePolicy `yaml:"exclude_policy"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Debug:         false,
		UseCache:      false,
		CacheFile:     core.CacheFile(),
		DebugLogFile:  core.DebugLogFile(),
		Diskutil:      DefaultDiskutil,
		Timeout:       DefaultTimeout,
		ExcludePolicy: ExcludeLegacy,
	}
}

// Validate checks the config and resets invalid fields to their defaults,
// returning one error per field it had to fix.
func (c *Config) Validate() []error {
	var errs []error
	defaults := DefaultConfig()

	switch c.ExcludePolicy {
	case ExcludeLegacy, ExcludeUsed:
	default:
		errs = append(errs, fmt.Errorf("unknown exclude policy %q", c.ExcludePolicy))
		c.ExcludePolicy = defaults.ExcludePolicy
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("negative timeout %s", c.Timeout))
		c.Timeout = defaults.Timeout
	}

	if c.Diskutil == "" {
		c.Diskutil = defaults.Diskutil
	}
	if c.CacheFile == "" {
		c.CacheFile = defaults.CacheFile
	}
	if c.DebugLogFile == "" {
		c.DebugLogFile = defaults.DebugLogFile
	}

	return errs
}
