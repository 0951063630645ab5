package core

import (
	"os"
	"path/filepath"
)

const (
	cacheFileName    = "completiondiskcache"
	debugLogFileName = "completedebug"
	appDirName       = "diskcomplete"
	configFileName   = "config.yaml"
)

type Paths struct {
	TempDir      string
	ConfigDir    string
	CacheFile    string
	DebugLogFile string
	ConfigFile   string
}

var defaultPaths *Paths

// ensureDefaultPaths never fails: a completion helper must not crash because
// the home directory cannot be resolved, so the config dir falls back to the
// temp dir.
func ensureDefaultPaths() {
	if defaultPaths == nil {
		tempDir := os.TempDir()

		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = tempDir
		}
		configDir = filepath.Join(configDir, appDirName)

		defaultPaths = &Paths{
			TempDir:      tempDir,
			ConfigDir:    configDir,
			CacheFile:    filepath.Join(tempDir, cacheFileName),
			DebugLogFile: filepath.Join(tempDir, debugLogFileName),
			ConfigFile:   filepath.Join(configDir, configFileName),
		}
	}
}

func TempDir() string {
	ensureDefaultPaths()
	return defaultPaths.TempDir
}

func ConfigDir() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigDir
}

func CacheFile() string {
	ensureDefaultPaths()
	return defaultPaths.CacheFile
}

func DebugLogFile() string {
	ensureDefaultPaths()
	return defaultPaths.DebugLogFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
