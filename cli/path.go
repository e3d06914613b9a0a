package cli

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/hushlang/hush/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// baseHistory is the base name of the interactive history file.
const baseHistory = "history"

// defaultDirMode is the permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// configDir returns the configuration directory path, falling back from the
// platform config dir to a dot directory in $HOME, then the working
// directory.
var configDir = sync.OnceValue(
	func() string {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".config")
			} else {
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, pkg.Name)
	},
)

// cacheDir returns the cache directory path used for transient files such as
// history and profiles.
var cacheDir = sync.OnceValue(
	func() string {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".cache")
			} else {
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, pkg.Name)
	},
)

// configPath joins the configuration directory with the given elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// historyPath returns the path to the interactive history file.
func historyPath() string {
	return filepath.Join(cacheDir(), baseHistory)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	if err := os.MkdirAll(configDir(), defaultDirMode); err != nil {
		return err
	}

	return os.MkdirAll(cacheDir(), defaultDirMode)
}
