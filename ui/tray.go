// Package ui provides the graphical front end of the SusOps tray.
// This file contains the system tray indicator.
package ui

import (
	"fyne.io/systray"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/config"
	"github.com/susops/susops-tray/proxy"
)

// TrayIndicator owns the systray icon and menu. Menu sensitivity and the
// status row are driven exclusively by the controller's hooks, so the
// indicator never decides state on its own.
type TrayIndicator struct {
	app *Application

	statusItem  *systray.MenuItem
	startItem   *systray.MenuItem
	stopItem    *systray.MenuItem
	restartItem *systray.MenuItem
	testItem    *systray.MenuItem
	testAllItem *systray.MenuItem
}

// NewTrayIndicator creates the tray indicator for the application.
func NewTrayIndicator(app *Application) *TrayIndicator {
	return &TrayIndicator{app: app}
}

// Run starts the systray loop. It blocks; call from a goroutine.
func (t *TrayIndicator) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Stop tears down the tray icon.
func (t *TrayIndicator) Stop() {
	systray.Quit()
}

// onReady fires on the systray goroutine; the menu build is marshaled onto
// the dispatch context so the item pointers, the config snapshot, and the
// icon cache are only ever touched there.
func (t *TrayIndicator) onReady() {
	t.app.dispatcher.Invoke(t.buildMenu)
}

func (t *TrayIndicator) buildMenu() {
	systray.SetTitle(common.AppName)
	systray.SetTooltip(common.AppName)
	if icon := t.app.icons.ResolveBytes(t.app.cfg.LogoStyle, proxy.StateInitial); icon != nil {
		systray.SetIcon(icon)
	}

	t.statusItem = systray.AddMenuItem(proxy.StateInitial.Dot()+"  SusOps: "+proxy.StateInitial.String(), "Show detailed proxy status")
	t.clicked(t.statusItem, func() {
		t.app.controller.QueryStatus(func(res proxy.Result) {
			t.app.showOutputDialog("Proxy Status", res.Output)
		})
	})

	systray.AddSeparator()

	t.startItem = systray.AddMenuItem("Start Proxy", "Start SSH tunnels and PAC routing")
	t.clicked(t.startItem, func() { t.app.controller.StartProxy() })

	t.stopItem = systray.AddMenuItem("Stop Proxy", "Close SSH tunnels")
	t.clicked(t.stopItem, func() { t.app.controller.StopProxy() })

	t.restartItem = systray.AddMenuItem("Restart Proxy", "Restart SSH tunnels")
	t.clicked(t.restartItem, func() { t.app.controller.RestartProxy() })

	systray.AddSeparator()

	t.testItem = systray.AddMenuItem("Test Target…", "Test a domain or port through the proxy")
	t.clickedDialog(t.testItem, t.app.showTestDialog)

	t.testAllItem = systray.AddMenuItem("Test All", "Test every configured endpoint")
	t.clicked(t.testAllItem, func() {
		t.app.controller.TestAll(func(res proxy.Result) {
			t.app.showOutputDialog("Test All", res.Output)
		})
	})

	systray.AddSeparator()

	addMenu := systray.AddMenuItem("Add", "Add proxy configuration")
	t.clickedDialog(addMenu.AddSubMenuItem("Add Connection…", "Register an SSH connection"), t.app.showAddConnectionDialog)
	t.clickedDialog(addMenu.AddSubMenuItem("Add Domain…", "Route a domain through the proxy"), t.app.showAddDomainDialog)
	t.clickedDialog(addMenu.AddSubMenuItem("Add Local Forward…", "Forward a local port"), func() { t.app.showAddForwardDialog(true) })
	t.clickedDialog(addMenu.AddSubMenuItem("Add Remote Forward…", "Forward a remote port"), func() { t.app.showAddForwardDialog(false) })

	removeMenu := systray.AddMenuItem("Remove", "Remove proxy configuration")
	t.clickedDialog(removeMenu.AddSubMenuItem("Remove Connection…", "Remove an SSH connection"), func() { t.app.showRemoveDialog(removeConnection) })
	t.clickedDialog(removeMenu.AddSubMenuItem("Remove Domain…", "Stop routing a domain"), func() { t.app.showRemoveDialog(removeDomain) })
	t.clickedDialog(removeMenu.AddSubMenuItem("Remove Local Forward…", "Remove a local forward"), func() { t.app.showRemoveDialog(removeLocalForward) })
	t.clickedDialog(removeMenu.AddSubMenuItem("Remove Remote Forward…", "Remove a remote forward"), func() { t.app.showRemoveDialog(removeRemoteForward) })

	listItem := systray.AddMenuItem("List All", "Show configured domains and forwards")
	t.clicked(listItem, func() {
		t.app.controller.ListAll(func(res proxy.Result) {
			t.app.showOutputDialog("Configured Domains and Forwards", res.Output)
		})
	})

	systray.AddSeparator()

	t.buildBrowserMenu()

	configItem := systray.AddMenuItem("Open Config File", "Open the susops YAML config")
	t.clicked(configItem, func() { OpenPath(t.app.store.Path()) })

	settingsItem := systray.AddMenuItem("Settings…", "Tray settings")
	t.clickedDialog(settingsItem, t.app.showSettingsDialog)

	systray.AddSeparator()

	resetItem := systray.AddMenuItem("Reset All…", "Wipe the susops configuration")
	t.clickedDialog(resetItem, t.app.confirmReset)

	aboutItem := systray.AddMenuItem("About", "About SusOps")
	t.clickedDialog(aboutItem, t.app.showAboutDialog)

	quitItem := systray.AddMenuItem("Quit", "Quit the tray")
	t.clickedDialog(quitItem, t.app.Quit)

	// The startup check may have committed a state while the items did
	// not exist yet; pick it up now.
	t.app.controller.Republish()
}

func (t *TrayIndicator) onExit() {
	common.LogInfo("Tray indicator shut down")
}

// clicked runs fn on every click. fn must be safe to call from the
// systray goroutine.
func (t *TrayIndicator) clicked(item *systray.MenuItem, fn func()) {
	go func() {
		for range item.ClickedCh {
			fn()
		}
	}()
}

// clickedDialog runs fn on the GTK main loop; use for anything touching
// widgets or application state.
func (t *TrayIndicator) clickedDialog(item *systray.MenuItem, fn func()) {
	t.clicked(item, func() { t.app.dispatcher.Invoke(fn) })
}

func (t *TrayIndicator) buildBrowserMenu() {
	browserMenu := systray.AddMenuItem("Launch Browser", "Launch a browser routed through the proxy")

	browsers := DiscoverBrowsers()
	if len(browsers) == 0 {
		none := browserMenu.AddSubMenuItem("No browsers found", "")
		none.Disable()
		return
	}

	for _, b := range browsers {
		browser := b
		launch := browserMenu.AddSubMenuItem("Launch "+browser.Name, "Launch with PAC proxying")
		t.clickedDialog(launch, func() { t.app.launchBrowser(browser) })

		if browser.Chromium && browser.Settings {
			settings := browserMenu.AddSubMenuItem(browser.Name+" Proxy Settings", "Open the proxy settings page")
			t.clickedDialog(settings, func() { t.app.openBrowserSettings(browser) })
		}
	}
}

// SetState updates the status row, tooltip, and icon for a committed
// state. Called on the dispatch context.
func (t *TrayIndicator) SetState(s proxy.ProcessState, style config.LogoStyle) {
	if t.statusItem == nil {
		return
	}
	t.statusItem.SetTitle(s.Dot() + "  SusOps: " + s.String())
	systray.SetTooltip(common.AppName + " - " + s.String())
	if icon := t.app.icons.ResolveBytes(style, s); icon != nil {
		systray.SetIcon(icon)
	}
}

// SetTransient shows an in-progress label while an action's command is
// outstanding. The next committed state overwrites it.
func (t *TrayIndicator) SetTransient(label string) {
	if t.statusItem == nil {
		return
	}
	t.statusItem.SetTitle("⏳  SusOps: " + label)
	t.SetSensitivity(false, false)
}

// SetSensitivity enables or disables the proxy controls.
func (t *TrayIndicator) SetSensitivity(startEnabled, actionEnabled bool) {
	if t.startItem == nil {
		return
	}
	setEnabled(t.startItem, startEnabled)
	setEnabled(t.stopItem, actionEnabled)
	setEnabled(t.restartItem, actionEnabled)
	setEnabled(t.testItem, actionEnabled)
	setEnabled(t.testAllItem, actionEnabled)
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}
