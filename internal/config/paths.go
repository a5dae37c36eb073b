package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the user-level config file path, following the XDG
// Base Directory Specification:
//   - Linux: ~/.config/changelog/config.yml
//   - macOS: ~/Library/Application Support/changelog/config.yml
//   - Windows: %APPDATA%\changelog\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "changelog", "config.yml"), nil
}

// ProjectConfigPath returns the project-level config file path, relative to
// the current directory.
func ProjectConfigPath() string {
	return ".changelog.yml"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
