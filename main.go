// Package main provides the entry point for the SusOps tray.
// SusOps tray is a GTK4 status indicator for Linux that fronts the
// susops CLI, the shell tool managing SSH-based SOCKS proxying, PAC
// routing, and port forwards.
//
// Features:
//   - Tray icon reflecting live proxy state
//   - Start/stop/restart and connectivity tests from the menu
//   - Dialogs for connections, domains, and port forwards
//   - Browser launchers preconfigured for the local PAC file
//   - Command-line interface for scripting and automation
//
// Usage:
//
//	susops-tray [options]
//
// Environment:
//
//	The application requires the susops CLI to be installed; yq is
//	needed for settings writes.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/susops/susops-tray/cli"
	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/proxy"
	"github.com/susops/susops-tray/ui"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

var (
	// GUI/General flags
	showVersion = flag.Bool("version", false, "Show version and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	showHelp    = flag.Bool("help", false, "Show help message")

	// CLI flags
	showStatus   = flag.Bool("status", false, "Show proxy state and exit")
	startProxy   = flag.Bool("start", false, "Start the proxy")
	stopProxy    = flag.Bool("stop", false, "Stop the proxy")
	restartProxy = flag.Bool("restart", false, "Restart the proxy")
	testTarget   = flag.String("test", "", "Test a domain or port (\"all\" tests everything)")
	listConfig   = flag.Bool("list", false, "List connections, domains, and forwards")
	watchStatus  = flag.Bool("watch", false, "Live status view")
)

func main() {
	flag.Parse()

	if *showHelp {
		cli.PrintHelp()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("%s v%s\n", common.AppName, appVersion)
		if buildTime != "unknown" {
			fmt.Printf("  Build:  %s\n", buildTime)
			fmt.Printf("  Commit: %s\n", commitSHA)
		}
		os.Exit(0)
	}

	logLevel := common.LevelInfo
	if *verbose {
		logLevel = common.LevelDebug
	}

	if err := common.InitLogger(common.LogConfig{
		Level:       logLevel,
		EnableFile:  true,
		MaxFileSize: 5 * 1024 * 1024, // 5MB
		MaxBackups:  5,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}
	defer common.CloseLogger()

	if !proxy.NewRunner().Available() {
		common.LogError("susops CLI not found")
		fmt.Fprintln(os.Stderr, "Error: the susops CLI is not installed or not on PATH.")
		os.Exit(1)
	}

	if *showStatus || *startProxy || *stopProxy || *restartProxy ||
		*testTarget != "" || *listConfig || *watchStatus {
		os.Exit(runCLI())
	}

	// Tray mode. GTK owns the main loop; signals just log before the
	// default teardown.
	setupSignalHandler()

	common.LogInfo("Starting %s v%s", common.AppName, appVersion)
	app := ui.NewApplication(appVersion)
	exitCode := app.Run(os.Args[:1])

	if exitCode != 0 {
		common.LogWarn("Application exited with code %d", exitCode)
	}
	os.Exit(exitCode)
}

// runCLI handles command-line interface operations and returns the
// process exit code.
func runCLI() int {
	cliApp, err := cli.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case *watchStatus:
		return cliApp.Watch()
	case *showStatus:
		return cliApp.Status()
	case *startProxy:
		return cliApp.Start()
	case *stopProxy:
		return cliApp.Stop()
	case *restartProxy:
		return cliApp.Restart()
	case *testTarget != "":
		return cliApp.Test(*testTarget)
	case *listConfig:
		return cliApp.List()
	}
	return 0
}

// setupSignalHandler logs SIGINT/SIGTERM before the process exits so
// shutdowns are visible in the log file.
func setupSignalHandler() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, shutting down", sig)
		common.CloseLogger()
		os.Exit(0)
	}()
}
