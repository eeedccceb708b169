package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir string
	DataDir string
	LogFile string
}

var defaultPaths *Paths

// ensureDefaultPaths resolves the well-known paths once. A missing home
// directory leaves every path empty.
func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			defaultPaths = &Paths{}
			return
		}

		defaultPaths = &Paths{
			HomeDir: homeDir,
			DataDir: filepath.Join(homeDir, ".gprompt"),
			LogFile: filepath.Join(homeDir, ".gprompt", "gprompt.log"),
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

// EnsureDataDir creates the data directory. It is only called when file
// logging is enabled; a plain render never touches the filesystem for writing.
func EnsureDataDir() error {
	ensureDefaultPaths()
	if defaultPaths.DataDir == "" {
		return os.ErrNotExist
	}
	return os.MkdirAll(defaultPaths.DataDir, 0755)
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
