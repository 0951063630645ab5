package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/expand"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Debug)
	assert.False(t, cfg.UseCache)
	assert.Equal(t, "diskutil", cfg.Diskutil)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, ExcludeLegacy, cfg.ExcludePolicy)
	assert.Equal(t, "completiondiskcache", filepath.Base(cfg.CacheFile))
	assert.Equal(t, "completedebug", filepath.Base(cfg.DebugLogFile))
	assert.Empty(t, cfg.Validate())
}

func TestValidateResetsInvalidFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludePolicy = "sometimes"
	cfg.Timeout = -time.Second
	cfg.Diskutil = ""
	cfg.CacheFile = ""

	errs := cfg.Validate()

	assert.Len(t, errs, 2)
	assert.Equal(t, ExcludeLegacy, cfg.ExcludePolicy)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultDiskutil, cfg.Diskutil)
	assert.NotEmpty(t, cfg.CacheFile)
}

func TestLoadFromString(t *testing.T) {
	loader := NewLoader(nil)

	cfg, err := loader.LoadFromString(`
debug: true
use_cache: true
diskutil: /usr/sbin/diskutil
timeout: 2s
exclude_policy: used
`)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.True(t, cfg.UseCache)
	assert.Equal(t, "/usr/sbin/diskutil", cfg.Diskutil)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, ExcludeUsed, cfg.ExcludePolicy)
	assert.NotEmpty(t, cfg.CacheFile, "unset keys keep their defaults")
}

func TestLoadFromStringInvalid(t *testing.T) {
	_, err := NewLoader(nil).LoadFromString("debug: [unterminated")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	result := NewLoader(expand.ListEnviron()).Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NotNil(t, result.Config)
	assert.Empty(t, result.Errors)
	assert.Equal(t, DefaultConfig(), result.Config)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\ntimeout: 1s\ncache_file: /from/file\n"), 0644))

	env := expand.ListEnviron(
		"DISKCOMPLETE_DEBUG=0",
		"DISKCOMPLETE_CACHE=yes",
		"DISKCOMPLETE_CACHE_FILE=/from/env",
		"DISKCOMPLETE_DEBUG_LOG=/tmp/trace",
		"DISKCOMPLETE_DISKUTIL=/opt/diskutil",
		"DISKCOMPLETE_EXCLUDE_POLICY=used",
	)
	result := NewLoader(env).Load(path)

	assert.Empty(t, result.Errors)
	cfg := result.Config
	assert.False(t, cfg.Debug, "environment wins over file")
	assert.True(t, cfg.UseCache)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, "/from/env", cfg.CacheFile)
	assert.Equal(t, "/tmp/trace", cfg.DebugLogFile)
	assert.Equal(t, "/opt/diskutil", cfg.Diskutil)
	assert.Equal(t, ExcludeUsed, cfg.ExcludePolicy)
}

func TestLoadCollectsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: [1, 2]\n"), 0644))

	env := expand.ListEnviron(
		"DISKCOMPLETE_DEBUG=perhaps",
		"DISKCOMPLETE_TIMEOUT=later",
		"DISKCOMPLETE_EXCLUDE_POLICY=never",
	)
	result := NewLoader(env).Load(path)

	assert.Len(t, result.Errors, 4)
	assert.Equal(t, ExcludeLegacy, result.Config.ExcludePolicy)
	assert.Equal(t, DefaultTimeout, result.Config.Timeout)
	assert.False(t, result.Config.Debug)
}
