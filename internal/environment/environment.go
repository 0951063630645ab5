// Package environment reads completion request state and configuration
// overrides from a shell environment.
package environment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
)

const (
	CompWords = "COMP_WORDS"
	CompCword = "COMP_CWORD"

	Debug         = "DISKCOMPLETE_DEBUG"
	UseCache      = "DISKCOMPLETE_CACHE"
	CacheFile     = "DISKCOMPLETE_CACHE_FILE"
	DebugLogFile  = "DISKCOMPLETE_DEBUG_LOG"
	Diskutil      = "DISKCOMPLETE_DISKUTIL"
	Timeout       = "DISKCOMPLETE_TIMEOUT"
	ExcludePolicy = "DISKCOMPLETE_EXCLUDE_POLICY"
)

// GetCompWords returns the raw space-joined command line, or "" when unset.
func GetCompWords(env expand.Environ) string {
	return env.Get(CompWords).String()
}

// GetCompCword returns the index of the word being completed.
func GetCompCword(env expand.Environ) (int, error) {
	vr := env.Get(CompCword)
	if !vr.IsSet() {
		return 0, fmt.Errorf("%s is not set", CompCword)
	}

	cword, err := strconv.Atoi(strings.TrimSpace(vr.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", CompCword, err)
	}
	return cword, nil
}

// HasCompletionRequest reports whether the environment looks like it came
// from a shell completion function.
func HasCompletionRequest(env expand.Environ) bool {
	return env.Get(CompCword).IsSet()
}

// GetString returns the value of name and whether it was set to a non-empty value.
func GetString(env expand.Environ, name string) (string, bool) {
	value := strings.TrimSpace(env.Get(name).String())
	return value, value != ""
}

// GetBool parses name as a boolean. Unset or unparsable values report ok=false.
func GetBool(env expand.Environ, name string) (value bool, ok bool, err error) {
	raw, set := GetString(env, name)
	if !set {
		return false, false, nil
	}

	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, true, nil
	case "0", "false", "no", "off":
		return false, true, nil
	}
	return false, false, fmt.Errorf("invalid boolean for %s: %q", name, raw)
}

// GetDuration parses name with time.ParseDuration.
func GetDuration(env expand.Environ, name string) (time.Duration, bool, error) {
	raw, set := GetString(env, name)
	if !set {
		return 0, false, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid duration for %s: %w", name, err)
	}
	return d, true, nil
}
