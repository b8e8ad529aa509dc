// Package cli provides command-line access to the susops proxy without
// launching the tray. It wraps the same exit-code protocol the tray
// speaks, so scripts can rely on the process exit code.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/config"
	"github.com/susops/susops-tray/proxy"
)

var (
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	stylePartial = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	styleStopped = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleHeader  = lipgloss.NewStyle().Bold(true)
)

func styleFor(s proxy.ProcessState) lipgloss.Style {
	switch s {
	case proxy.StateRunning:
		return styleRunning
	case proxy.StateStoppedPartially:
		return stylePartial
	case proxy.StateError:
		return styleError
	default:
		return styleStopped
	}
}

// CLI bundles the runner and config store for terminal use.
type CLI struct {
	runner *proxy.Runner
	store  *config.Store
}

// New creates a CLI instance. It fails when the susops executable cannot
// be found.
func New() (*CLI, error) {
	runner := proxy.NewRunner()
	if !runner.Available() {
		return nil, common.WrapError(common.ErrCLINotFound, "susops executable not found")
	}
	return &CLI{runner: runner, store: config.NewStore()}, nil
}

// Status queries the proxy once and prints the classified state plus the
// raw output. The exit code mirrors the classification: 0 when running,
// 1 otherwise.
func (c *CLI) Status() int {
	res := c.runner.Run([]string{"ps"}, common.StatusTimeout)
	s := proxy.StateFromExitCode(res.ExitCode)

	fmt.Printf("%s %s\n", s.Dot(), styleFor(s).Render("proxy "+s.String()))
	if res.Output != "" {
		fmt.Println(res.Output)
	}
	if s == proxy.StateRunning {
		return 0
	}
	return 1
}

// Start brings the proxy up and reports the re-checked state.
func (c *CLI) Start() int {
	return c.action("Starting proxy...", []string{"start"}, common.StartTimeout)
}

// Stop tears the proxy down, honoring the ephemeral-ports setting the
// same way the tray does.
func (c *CLI) Stop() int {
	args := []string{"stop"}
	if !c.store.LoadAppConfig().EphemeralPorts {
		args = append(args, "--keep-ports")
	}
	return c.action("Stopping proxy...", args, common.StopTimeout)
}

// Restart bounces the proxy.
func (c *CLI) Restart() int {
	return c.action("Restarting proxy...", []string{"restart"}, common.StartTimeout)
}

// action runs a state-changing command and then re-polls for ground
// truth, mirroring the tray's post-action consistency check.
func (c *CLI) action(banner string, args []string, timeout time.Duration) int {
	fmt.Println(banner)
	res := c.runner.Run(args, timeout)
	if res.Output != "" {
		fmt.Println(res.Output)
	}
	if res.ExitCode != 0 {
		fmt.Println(styleError.Render("command failed (rc=" + fmt.Sprint(res.ExitCode) + ")"))
		return 1
	}
	return c.Status()
}

// Test checks a single target, or every configured endpoint when target
// is empty.
func (c *CLI) Test(target string) int {
	args := []string{"test", target}
	timeout := common.TestTimeout
	if target == "" || target == "all" {
		args = []string{"test", "--all"}
		timeout = common.TestAllTimeout
	}

	res := c.runner.Run(args, timeout)
	if res.Output != "" {
		fmt.Println(res.Output)
	}
	if res.ExitCode != 0 {
		return 1
	}
	return 0
}

// List prints the configured connections, domains, and forwards.
func (c *CLI) List() int {
	res := c.runner.Run([]string{"ls"}, common.StopTimeout)
	if res.ExitCode != 0 {
		fmt.Println(styleError.Render(res.Output))
		return 1
	}

	tags := c.store.ConnectionTags()
	if len(tags) == 0 {
		fmt.Println("No connections configured.")
		fmt.Println("Add one with the tray (Add → Add Connection) or `susops add-connection`.")
		return 0
	}

	fmt.Println(styleHeader.Render("Connections"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tDOMAINS\tLOCAL FWD\tREMOTE FWD")
	fmt.Fprintf(w, "%d configured\t%d\t%d\t%d\n",
		len(tags), len(c.store.Domains()), len(c.store.LocalForwards()), len(c.store.RemoteForwards()))
	w.Flush()

	fmt.Println()
	fmt.Println(res.Output)
	return 0
}

// PrintHelp prints CLI usage help.
func PrintHelp() {
	fmt.Println(`SusOps Tray - Command Line Interface

Usage:
  susops-tray [OPTIONS]

Options:
  --version        Show version and exit
  --verbose        Enable verbose logging
  --status         Show proxy state (exit 0 when running)
  --start          Start the proxy
  --stop           Stop the proxy
  --restart        Restart the proxy
  --test TARGET    Test a domain or port ("all" tests everything)
  --list           List connections, domains, and forwards
  --watch          Live status view, refreshed every 5s
  --help           Show this help message

Examples:
  susops-tray --status
  susops-tray --test example.com
  susops-tray --watch

Run without options to launch the tray indicator.`)
}
