// Package common provides shared constants, types, and utilities
// used across the SusOps tray application.
package common

import (
	"os"
	"path/filepath"
)

// WorkspaceDir returns the susops CLI workspace directory (~/.susops).
// It does not create the directory; the CLI owns it.
func WorkspaceDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, WorkspaceDirName)
}

// ProxyConfigPath returns the path of the susops YAML config document.
func ProxyConfigPath() string {
	ws := WorkspaceDir()
	if ws == "" {
		return ""
	}
	return filepath.Join(ws, ProxyConfigFileName)
}

// IconCacheDir returns the per-user directory for rasterized tray icons,
// creating it if necessary.
func IconCacheDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}
	dir := filepath.Join(homeDir, ".cache", "susops", "icons")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", WrapError(err, "failed to create icon cache directory")
	}
	return dir, nil
}

// AutostartDir returns the XDG autostart directory.
func AutostartDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "autostart")
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsValidPort reports whether value is a decimal TCP port in 1..65535.
func IsValidPort(value string) bool {
	if value == "" || len(value) > 5 {
		return false
	}
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
	}
	return n >= 1 && n <= 65535
}
