// Package common provides shared constants, errors, and utilities used
// throughout the SusOps tray application.
//
// This package is the foundation for cross-cutting concerns:
//
//   - Constants: command timeouts, poll interval, paths, and the welcome
//     signature that identifies a fresh installation
//   - Errors: sentinel errors for consistent handling across packages
//   - Logger: leveled logging to stdout and a size-rotated, gzip-compressed
//     log file
//   - Utils: workspace/cache path helpers, port validation, and SSH config
//     host discovery
//
// # Usage
//
//	import "github.com/susops/susops-tray/common"
//
//	common.LogInfo("Starting %s", common.AppName)
//
//	if errors.Is(err, common.ErrCLINotFound) {
//	    // susops is not installed
//	}
package common
