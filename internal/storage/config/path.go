// Package config provides configuration file parsing and validation.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var gameConfigName = regexp.MustCompile(`^config_[a-zA-Z0-9]+\.toml$`)

// ParseGameConfigPath validates the path to a loader config file and returns
// the cleaned path if valid.
// It returns an error if:
//   - The path is empty
//   - The path is not absolute
//   - The path contains parent directory traversal (..)
//   - The file does not exist
//   - The path points to a directory instead of a file
//   - The file name is not config_<id>.toml
func ParseGameConfigPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("config path cannot be empty")
	}

	path = ExpandPath(path)

	if !filepath.IsAbs(path) {
		return "", errors.New("config path must be absolute")
	}

	if strings.Contains(path, "..") {
		return "", errors.New("config path contains invalid traversal")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("config file does not exist")
		}
		return "", err
	}

	if info.IsDir() {
		return "", errors.New("config path is a directory, not a file")
	}

	if !gameConfigName.MatchString(filepath.Base(path)) {
		return "", errors.New("config file must be named config_<game>.toml")
	}

	return filepath.Clean(path), nil
}
