package ui

import (
	"os"
	"path/filepath"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/config"
	"github.com/susops/susops-tray/proxy"
)

// GTKDispatcher delivers callbacks on the GTK main loop. It is the single
// serialization point for controller state, dialogs, and icon resolution.
type GTKDispatcher struct{}

// Invoke schedules fn on the GTK main loop.
func (GTKDispatcher) Invoke(fn func()) {
	glib.IdleAdd(fn)
}

// Application ties the tray indicator, the proxy controller, and the GTK
// dialog layer together.
type Application struct {
	app        *gtk.Application
	dispatcher GTKDispatcher

	executor   *proxy.Executor
	controller *proxy.Controller

	store *config.Store
	cfg   config.AppConfig

	icons *IconResolver
	tray  *TrayIndicator

	version  string
	sawState bool
	quitting bool
}

// NewApplication wires the proxy bridge and configuration. The GTK side
// comes up on activation.
func NewApplication(version string) *Application {
	a := &Application{
		app:     gtk.NewApplication(common.AppID, gio.ApplicationFlagsNone),
		store:   config.NewStore(),
		version: version,
	}
	a.cfg = a.store.LoadAppConfig()

	runner := proxy.NewRunner()
	a.executor = proxy.NewExecutor(runner, a.dispatcher)
	a.controller = proxy.NewController(a.executor, a.dispatcher, proxy.Hooks{
		StateChanged:    a.onStateChanged,
		MenuSensitivity: a.onMenuSensitivity,
		ActionStarted:   a.onActionStarted,
		CommandFailed:   a.onCommandFailed,
		FirstRun:        a.onFirstRun,
	}, proxy.WithKeepPorts(func() bool { return !a.cfg.EphemeralPorts }))

	a.icons = NewIconResolver(findIconsDir(), "")

	a.app.ConnectActivate(a.onActivate)
	return a
}

// Run enters the GTK main loop; it returns the process exit code.
func (a *Application) Run(args []string) int {
	return a.app.Run(args)
}

// Controller exposes the proxy controller for the tray and dialogs.
func (a *Application) Controller() *proxy.Controller {
	return a.controller
}

func (a *Application) onActivate() {
	// No main window; the tray keeps the application alive.
	a.app.Hold()

	a.tray = NewTrayIndicator(a)
	go a.tray.Run()

	glib.IdleAdd(func() {
		a.controller.StartupCheck()
		a.controller.StartPolling()
	})
}

func (a *Application) onStateChanged(s proxy.ProcessState) {
	// The hook fires before the commit, so the controller still reports
	// the previous state here.
	prev := a.controller.State()
	if a.tray != nil {
		a.tray.SetState(s, a.cfg.LogoStyle)
	}

	// The first real state is the startup snapshot, not a transition.
	// Initial publishes (a menu build before the startup check) do not
	// consume the skip.
	if !a.sawState {
		if s != proxy.StateInitial {
			a.sawState = true
		}
		return
	}
	switch {
	case s == proxy.StateRunning && prev != proxy.StateRunning:
		NotifyProxyStarted()
	case s == proxy.StateStopped && (prev == proxy.StateRunning || prev == proxy.StateStoppedPartially):
		NotifyProxyStopped()
	}
}

func (a *Application) onMenuSensitivity(startEnabled, actionEnabled bool) {
	if a.tray != nil {
		a.tray.SetSensitivity(startEnabled, actionEnabled)
	}
}

func (a *Application) onActionStarted(action proxy.Action) {
	if a.tray != nil {
		a.tray.SetTransient(action.TransientLabel())
	}
}

func (a *Application) onCommandFailed(output string) {
	NotifyCommandFailed(output)
	a.showOutputDialog("Command Failed", output)
}

func (a *Application) onFirstRun() {
	a.showWelcomeDialog()
}

// reloadConfig re-reads the tray settings and re-applies the current
// state so an icon style change takes effect immediately.
func (a *Application) reloadConfig() {
	a.cfg = a.store.LoadAppConfig()
	if a.tray != nil {
		a.tray.SetState(a.controller.State(), a.cfg.LogoStyle)
	}
}

// Quit tears the application down, honoring the stop-on-quit setting.
// Must run on the dispatch context.
func (a *Application) Quit() {
	if a.quitting {
		return
	}
	a.quitting = true

	a.controller.StopPolling()
	if a.cfg.StopOnQuit {
		common.LogInfo("Stopping proxy on quit")
		a.controller.StopOnQuit()
	}
	a.tray.Stop()
	a.app.Quit()
}

// findIconsDir locates the installed SVG icon tree, preferring the system
// install and falling back to a tree next to the executable for
// development runs.
func findIconsDir() string {
	candidates := []string{
		"/usr/share/susops-tray/icons",
		"/app/share/susops-tray/icons",
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "assets", "icons"))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "assets", "icons"))
	}
	for _, dir := range candidates {
		if common.FileExists(dir) {
			return dir
		}
	}
	common.LogWarn("No icon directory found, tray falls back to the theme icon")
	return ""
}
