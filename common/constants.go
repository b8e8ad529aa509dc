// Package common provides shared constants, types, and utilities
// used across the SusOps tray application.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "org.susops.App"
	// AppName is the display name of the application.
	AppName = "SusOps"
	// ConfigDirName is the name of the application's own config directory
	// (logs live here; the proxy config itself lives in WorkspaceDirName).
	ConfigDirName = "susops-tray"
	// WorkspaceDirName is the susops CLI workspace under the home directory.
	WorkspaceDirName = ".susops"
)

// File names used by the application.
const (
	ProxyConfigFileName = "config.yaml"
	LogFileName         = "susops-tray.log"
	AutostartFileName   = "org.susops.App.desktop"
)

// Command timeouts and intervals. The exit-code protocol and these budgets
// are a contract with the susops CLI.
const (
	// PollInterval is how often the tray re-queries proxy state.
	PollInterval = 5 * time.Second
	// StatusTimeout bounds a `ps` status query.
	StatusTimeout = 10 * time.Second
	// StartTimeout bounds `start` and `restart`.
	StartTimeout = 60 * time.Second
	// StopTimeout bounds `stop`.
	StopTimeout = 30 * time.Second
	// TestTimeout bounds `test <target>`.
	TestTimeout = 30 * time.Second
	// TestAllTimeout bounds `test --all`.
	TestAllTimeout = 60 * time.Second
	// QuitStopTimeout bounds the best-effort `stop --keep-ports` on quit.
	QuitStopTimeout = 15 * time.Second
	// ConfigQueryTimeout bounds a yq read/write against the config document.
	ConfigQueryTimeout = 5 * time.Second
	// ThemeQueryTimeout bounds a theme probe (gsettings fallback path).
	ThemeQueryTimeout = 2 * time.Second
)

// UI constants.
const (
	// TrayIconSize is the raster size of system tray icons in pixels.
	TrayIconSize = 22
	// OutputDialogWidth and OutputDialogHeight size the command-output viewer.
	OutputDialogWidth  = 600
	OutputDialogHeight = 380
)

// WelcomeSignature is the substring of a failed startup `ps` output that
// identifies a fresh, unconfigured installation.
const WelcomeSignature = "no default connection found"

// BindAddresses are the selectable bind addresses in forward dialogs.
var BindAddresses = []string{"localhost", "172.17.0.1", "0.0.0.0"}
