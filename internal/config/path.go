// Package config resolves and persists diskdex's on-disk settings file:
// watched-root overrides, pending removed-watched-folder notifications,
// language, and performance-manager overrides (§6, §7).
package config

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	userConfigDirectoryNotFoundErrorMessage = "user config directory not found"
	configDirectoryName                     = "diskdex"
	configFileName                          = "config.yaml"
)

// UserConfigDirectory is a seam over os.UserConfigDir for tests, following
// the teacher's pkg/config.UserConfigDirectory variable.
var UserConfigDirectory = os.UserConfigDir

// Path returns diskdex's config directory and the full path to its config
// file, mirroring the teacher's CliPath()/ObsidianFile() shape.
func Path() (dir string, file string, err error) {
	userConfigDir, err := UserConfigDirectory()
	if err != nil {
		return "", "", errors.New(userConfigDirectoryNotFoundErrorMessage)
	}
	dir = filepath.Join(userConfigDir, configDirectoryName)
	file = filepath.Join(dir, configFileName)
	return dir, file, nil
}
