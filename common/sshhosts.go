// Package common provides shared constants, types, and utilities
// used across the SusOps tray application.
package common

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sshHostPattern = regexp.MustCompile(`(?i)^\s*Host\s+(.*)$`)

// SSHHosts returns the concrete host aliases declared in the user's
// ~/.ssh/config, for use as completion candidates in connection dialogs.
// Wildcard patterns are skipped. A missing or unreadable file yields nil.
func SSHHosts() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return ParseSSHHosts(filepath.Join(homeDir, ".ssh", "config"))
}

// ParseSSHHosts extracts Host aliases from the ssh config file at path.
func ParseSSHHosts(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var hosts []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := sshHostPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, h := range strings.Fields(m[1]) {
			if strings.ContainsAny(h, "*?") {
				continue
			}
			hosts = append(hosts, h)
		}
	}
	return hosts
}
