// Package ui provides the graphical front end of the SusOps tray.
// This file contains the GTK4 dialogs. Every dialog is built fresh on
// open and runs on the GTK main loop.
package ui

import (
	"regexp"
	"strings"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/config"
	"github.com/susops/susops-tray/proxy"
)

// ── Widget helpers ──

func newDialogWindow(title string) *gtk.Window {
	window := gtk.NewWindow()
	window.SetTitle(title + " - " + common.AppName)
	window.SetModal(false)
	window.SetResizable(false)
	return window
}

type formRow struct {
	label  string
	widget gtk.Widgetter
}

func formGrid(rows []formRow) *gtk.Grid {
	grid := gtk.NewGrid()
	grid.SetRowSpacing(8)
	grid.SetColumnSpacing(12)
	grid.SetMarginTop(16)
	grid.SetMarginBottom(8)
	grid.SetMarginStart(16)
	grid.SetMarginEnd(16)

	for i, row := range rows {
		label := gtk.NewLabel(row.label)
		label.SetXAlign(1)
		label.AddCSSClass("dim-label")
		grid.Attach(label, 0, i, 1, 1)
		grid.Attach(row.widget, 1, i, 1, 1)
	}
	return grid
}

func buttonRow(window *gtk.Window, okLabel string, onOK func()) *gtk.Box {
	box := gtk.NewBox(gtk.OrientationHorizontal, 12)
	box.SetHAlign(gtk.AlignEnd)
	box.SetMarginTop(12)
	box.SetMarginBottom(16)
	box.SetMarginStart(16)
	box.SetMarginEnd(16)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.ConnectClicked(func() { window.Close() })
	box.Append(cancelBtn)

	okBtn := gtk.NewButtonWithLabel(okLabel)
	okBtn.AddCSSClass("suggested-action")
	okBtn.ConnectClicked(onOK)
	box.Append(okBtn)

	return box
}

// entryWithCompletion returns an entry with inline completion over the
// given options, used for SSH host suggestions.
func entryWithCompletion(options []string) *gtk.Entry {
	entry := gtk.NewEntry()
	if len(options) == 0 {
		return entry
	}

	store := gtk.NewListStore([]glib.Type{glib.TypeString})
	for _, opt := range options {
		iter := store.Append()
		store.SetValue(iter, 0, glib.NewValue(opt))
	}

	completion := gtk.NewEntryCompletion()
	completion.SetModel(store)
	completion.SetTextColumn(0)
	completion.SetInlineCompletion(true)
	entry.SetCompletion(completion)
	return entry
}

func dropDown(options []string) *gtk.DropDown {
	return gtk.NewDropDownFromStrings(options)
}

func dropDownText(dd *gtk.DropDown, options []string) string {
	idx := int(dd.Selected())
	if idx < 0 || idx >= len(options) {
		return ""
	}
	return options[idx]
}

// ── Alerts and confirmation ──

func (a *Application) alert(title, body string) {
	window := newDialogWindow(title)

	box := gtk.NewBox(gtk.OrientationVertical, 8)
	box.SetMarginTop(20)
	box.SetMarginBottom(16)
	box.SetMarginStart(24)
	box.SetMarginEnd(24)

	titleLabel := gtk.NewLabel(title)
	titleLabel.AddCSSClass("title-3")
	box.Append(titleLabel)

	if body != "" {
		bodyLabel := gtk.NewLabel(body)
		bodyLabel.SetWrap(true)
		bodyLabel.SetMaxWidthChars(60)
		box.Append(bodyLabel)
	}

	okBtn := gtk.NewButtonWithLabel("OK")
	okBtn.AddCSSClass("suggested-action")
	okBtn.SetHAlign(gtk.AlignCenter)
	okBtn.SetMarginTop(8)
	okBtn.ConnectClicked(func() { window.Close() })
	box.Append(okBtn)

	window.SetChild(box)
	window.Show()
}

func (a *Application) confirm(title, body, okLabel string, onConfirm func(), onCancel func()) {
	window := newDialogWindow(title)

	box := gtk.NewBox(gtk.OrientationVertical, 8)
	box.SetMarginTop(20)
	box.SetMarginBottom(4)
	box.SetMarginStart(24)
	box.SetMarginEnd(24)

	titleLabel := gtk.NewLabel(title)
	titleLabel.AddCSSClass("title-3")
	box.Append(titleLabel)

	bodyLabel := gtk.NewLabel(body)
	bodyLabel.SetWrap(true)
	bodyLabel.SetMaxWidthChars(60)
	box.Append(bodyLabel)

	buttons := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttons.SetHAlign(gtk.AlignEnd)
	buttons.SetMarginTop(12)
	buttons.SetMarginBottom(16)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.ConnectClicked(func() {
		window.Close()
		if onCancel != nil {
			onCancel()
		}
	})
	buttons.Append(cancelBtn)

	okBtn := gtk.NewButtonWithLabel(okLabel)
	okBtn.AddCSSClass("suggested-action")
	okBtn.ConnectClicked(func() {
		window.Close()
		onConfirm()
	})
	buttons.Append(okBtn)

	box.Append(buttons)
	window.SetChild(box)
	window.Show()
}

// showOutputDialog presents command output in a scrollable monospace view.
func (a *Application) showOutputDialog(title, text string) {
	if strings.TrimSpace(text) == "" {
		text = "(no output)"
	}

	window := newDialogWindow(title)
	window.SetDefaultSize(common.OutputDialogWidth, common.OutputDialogHeight)
	window.SetResizable(true)

	box := gtk.NewBox(gtk.OrientationVertical, 8)
	box.SetMarginTop(12)
	box.SetMarginBottom(12)
	box.SetMarginStart(12)
	box.SetMarginEnd(12)

	view := gtk.NewTextView()
	view.SetEditable(false)
	view.SetMonospace(true)
	view.SetWrapMode(gtk.WrapWordChar)
	view.Buffer().SetText(text)

	scrolled := gtk.NewScrolledWindow()
	scrolled.SetVExpand(true)
	scrolled.SetChild(view)
	box.Append(scrolled)

	closeBtn := gtk.NewButtonWithLabel("Close")
	closeBtn.SetHAlign(gtk.AlignEnd)
	closeBtn.ConnectClicked(func() { window.Close() })
	box.Append(closeBtn)

	window.SetChild(box)
	window.Show()
}

// showRestartIfRunning reports a config change and offers to restart the
// proxy when one is up, since tunnels only pick up config on start.
func (a *Application) showRestartIfRunning(title, message string) {
	s := a.controller.State()
	if s != proxy.StateRunning && s != proxy.StateStoppedPartially {
		a.alert(title, message)
		return
	}
	a.confirm(title, message+"\n\nRestart proxy to apply?", "Restart Proxy",
		func() { a.controller.RestartProxy() },
		func() {})
}

// runConfigCommand executes a susops config mutation and reports the
// outcome, optionally offering a restart.
func (a *Application) runConfigCommand(title string, args []string, restartPrompt bool) {
	a.executor.Go(args, common.StopTimeout, func(res proxy.Result) {
		if res.ExitCode != 0 {
			a.alert("Error", res.Output)
			return
		}
		if restartPrompt {
			a.showRestartIfRunning(title, res.Output)
		} else {
			a.alert(title, res.Output)
		}
	})
}

// ── Welcome and about ──

func (a *Application) showWelcomeDialog() {
	a.alert("🎉 Welcome to SusOps 🎉",
		"To get started, please follow these steps:\n\n"+
			"1. Add a connection  (Add → Add Connection)\n"+
			"2. Start the proxy  (Start Proxy)\n\n"+
			"If you need help, check About → GitHub.")
}

func (a *Application) showAboutDialog() {
	window := newDialogWindow("About")

	box := gtk.NewBox(gtk.OrientationVertical, 6)
	box.SetMarginTop(16)
	box.SetMarginBottom(12)
	box.SetMarginStart(20)
	box.SetMarginEnd(20)
	box.SetHAlign(gtk.AlignCenter)

	nameLabel := gtk.NewLabel("")
	nameLabel.SetMarkup("<b><big>" + common.AppName + "</big></b>")
	box.Append(nameLabel)

	verLabel := gtk.NewLabel("Version " + a.version)
	verLabel.AddCSSClass("dim-label")
	box.Append(verLabel)

	links := []struct{ text, url string }{
		{"GitHub (Linux)", "https://github.com/mashb1t/susops-linux"},
		{"GitHub (CLI)", "https://github.com/mashb1t/susops-cli"},
		{"Report a Bug", "https://github.com/mashb1t/susops-linux/issues/new"},
	}
	for _, link := range links {
		box.Append(gtk.NewLinkButtonWithLabel(link.url, link.text))
	}

	closeBtn := gtk.NewButtonWithLabel("Close")
	closeBtn.SetMarginTop(8)
	closeBtn.ConnectClicked(func() { window.Close() })
	box.Append(closeBtn)

	window.SetChild(box)
	window.Show()
}

// ── Settings ──

func (a *Application) showSettingsDialog() {
	cfg := a.store.LoadAppConfig()
	window := newDialogWindow("Settings")

	stopOnQuit := gtk.NewSwitch()
	stopOnQuit.SetHAlign(gtk.AlignStart)
	stopOnQuit.SetActive(cfg.StopOnQuit)

	ephemeral := gtk.NewSwitch()
	ephemeral.SetHAlign(gtk.AlignStart)
	ephemeral.SetActive(cfg.EphemeralPorts)

	launchAtLogin := gtk.NewSwitch()
	launchAtLogin.SetHAlign(gtk.AlignStart)
	launchAtLogin.SetActive(AutostartEnabled())

	pacPort := gtk.NewEntry()
	pacPort.SetPlaceholderText("auto if blank")
	if cfg.PACServerPort != "0" {
		pacPort.SetText(cfg.PACServerPort)
	}

	styles := config.AllLogoStyles()
	styleNames := make([]string, len(styles))
	selected := uint(0)
	for i, s := range styles {
		styleNames[i] = s.DisplayName()
		if s == cfg.LogoStyle {
			selected = uint(i)
		}
	}
	logoStyle := dropDown(styleNames)
	logoStyle.SetSelected(selected)
	// Live preview; reverted on cancel.
	logoStyle.NotifyProperty("selected", func() {
		idx := int(logoStyle.Selected())
		if idx >= 0 && idx < len(styles) && a.tray != nil {
			a.tray.SetState(a.controller.State(), styles[idx])
		}
	})

	grid := formGrid([]formRow{
		{"Stop proxy on quit:", stopOnQuit},
		{"Ephemeral ports:", ephemeral},
		{"Launch at login:", launchAtLogin},
		{"PAC server port:", pacPort},
		{"Icon style:", logoStyle},
	})

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.Append(grid)

	revertPreview := func() {
		if a.tray != nil {
			a.tray.SetState(a.controller.State(), a.cfg.LogoStyle)
		}
	}

	buttons := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttons.SetHAlign(gtk.AlignEnd)
	buttons.SetMarginTop(12)
	buttons.SetMarginBottom(16)
	buttons.SetMarginStart(16)
	buttons.SetMarginEnd(16)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.ConnectClicked(func() {
		revertPreview()
		window.Close()
	})
	buttons.Append(cancelBtn)

	saveBtn := gtk.NewButtonWithLabel("Save")
	saveBtn.AddCSSClass("suggested-action")
	saveBtn.ConnectClicked(func() {
		port := strings.TrimSpace(pacPort.Text())
		if port == "" {
			port = "0"
		}
		if port != "0" && !common.IsValidPort(port) {
			a.alert("Invalid Port", "PAC server port must be between 1 and 65535.")
			return
		}

		next := config.AppConfig{
			PACServerPort:  port,
			StopOnQuit:     stopOnQuit.Active(),
			EphemeralPorts: ephemeral.Active(),
			LogoStyle:      styles[int(logoStyle.Selected())],
		}
		if err := a.store.SaveAppConfig(next); err != nil {
			a.alert("Error", err.Error())
			return
		}
		if err := SetAutostart(launchAtLogin.Active()); err != nil {
			common.LogWarn("Failed to update autostart entry: %v", err)
		}

		a.reloadConfig()
		window.Close()
		a.showRestartIfRunning("Settings Saved",
			"Settings will be applied on next proxy start.")
	})
	buttons.Append(saveBtn)

	box.Append(buttons)
	window.SetChild(box)
	window.Show()
}

// ── Add dialogs ──

func (a *Application) showAddConnectionDialog() {
	window := newDialogWindow("Add Connection")

	tag := gtk.NewEntry()
	host := entryWithCompletion(common.SSHHosts())
	port := gtk.NewEntry()
	port.SetPlaceholderText("auto if blank")

	grid := formGrid([]formRow{
		{"Connection Tag *:", tag},
		{"SSH Host *:", host},
		{"SOCKS Proxy Port (optional):", port},
	})

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.Append(grid)
	box.Append(buttonRow(window, "Add", func() {
		tagText := strings.TrimSpace(tag.Text())
		hostText := strings.TrimSpace(host.Text())
		portText := strings.TrimSpace(port.Text())

		if tagText == "" {
			a.alert("Missing Field", "Connection Tag must not be empty.")
			return
		}
		if hostText == "" {
			a.alert("Missing Field", "SSH Host must not be empty.")
			return
		}
		if portText != "" && !common.IsValidPort(portText) {
			a.alert("Invalid Port", "SOCKS Proxy Port must be between 1 and 65535.")
			return
		}

		args := []string{"add-connection", tagText, hostText}
		if portText != "" {
			args = append(args, portText)
		}
		window.Close()
		a.runConfigCommand("Connection Added", args, false)
	}))

	window.SetChild(box)
	window.Show()
	tag.GrabFocus()
}

func (a *Application) showAddDomainDialog() {
	tags := a.store.ConnectionTags()
	if len(tags) == 0 {
		a.alert("No Connection", "Add a connection first.")
		return
	}

	window := newDialogWindow("Add Domain")

	conn := dropDown(tags)
	host := gtk.NewEntry()
	host.SetPlaceholderText("example.com, 10.0.0.0/8, …")

	grid := formGrid([]formRow{
		{"Connection *:", conn},
		{"Domain / IP / CIDR *:", host},
	})

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.Append(grid)
	box.Append(buttonRow(window, "Add", func() {
		hostText := strings.TrimSpace(host.Text())
		if hostText == "" {
			a.alert("Missing Field", "Host must not be empty.")
			return
		}
		tag := dropDownText(conn, tags)
		window.Close()
		a.runConfigCommand("Host Added", []string{"-c", tag, "add", hostText}, false)
	}))

	window.SetChild(box)
	window.Show()
	host.GrabFocus()
}

func (a *Application) showAddForwardDialog(local bool) {
	tags := a.store.ConnectionTags()
	if len(tags) == 0 {
		a.alert("No Connection", "Add a connection first.")
		return
	}

	title := "Add Local Forward"
	if !local {
		title = "Add Remote Forward"
	}
	window := newDialogWindow(title)

	conn := dropDown(tags)
	tag := gtk.NewEntry()
	tag.SetPlaceholderText("optional")
	localPort := gtk.NewEntry()
	localPort.SetPlaceholderText("e.g. 8080")
	remotePort := gtk.NewEntry()
	remotePort.SetPlaceholderText("e.g. 80")
	localAddr := dropDown(common.BindAddresses)
	remoteAddr := dropDown(common.BindAddresses)

	grid := formGrid([]formRow{
		{"Connection *:", conn},
		{"Tag (optional):", tag},
		{"Forward Local Port *:", localPort},
		{"To Remote Port *:", remotePort},
		{"Local Bind (optional):", localAddr},
		{"Remote Bind (optional):", remoteAddr},
	})

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.Append(grid)
	box.Append(buttonRow(window, "Add", func() {
		lport := strings.TrimSpace(localPort.Text())
		rport := strings.TrimSpace(remotePort.Text())
		if !common.IsValidPort(lport) {
			a.alert("Invalid Port", "Local Port must be 1-65535.")
			return
		}
		if !common.IsValidPort(rport) {
			a.alert("Invalid Port", "Remote Port must be 1-65535.")
			return
		}

		connTag := dropDownText(conn, tags)
		fwdTag := strings.TrimSpace(tag.Text())
		laddr := dropDownText(localAddr, common.BindAddresses)
		raddr := dropDownText(remoteAddr, common.BindAddresses)

		var args []string
		var doneTitle string
		if local {
			args = []string{"-c", connTag, "add", "-l", lport, rport, fwdTag, laddr, raddr}
			doneTitle = "Local Forward Added"
		} else {
			args = []string{"-c", connTag, "add", "-r", rport, lport, fwdTag, raddr, laddr}
			doneTitle = "Remote Forward Added"
		}
		window.Close()
		a.runConfigCommand(doneTitle, args, true)
	}))

	window.SetChild(box)
	window.Show()
	localPort.GrabFocus()
}

// ── Remove dialogs ──

type removeKind int

const (
	removeConnection removeKind = iota
	removeDomain
	removeLocalForward
	removeRemoteForward
)

// forwardPort pulls the source port out of a forward display string like
// "db (5432 → 5432)".
var forwardPort = regexp.MustCompile(`\((\d+)`)

func (a *Application) showRemoveDialog(kind removeKind) {
	var title, label string
	var items []string
	switch kind {
	case removeConnection:
		title, label = "Remove Connection", "Connection Tag"
		items = a.store.ConnectionTags()
	case removeDomain:
		title, label = "Remove Domain / IP / CIDR", "Host"
		items = a.store.Domains()
	case removeLocalForward:
		title, label = "Remove Local Forward", "Local Forward"
		items = a.store.LocalForwards()
	case removeRemoteForward:
		title, label = "Remove Remote Forward", "Remote Forward"
		items = a.store.RemoteForwards()
	}

	if len(items) == 0 {
		a.alert(title, "Nothing to remove.")
		return
	}

	window := newDialogWindow(title)
	choice := dropDown(items)
	grid := formGrid([]formRow{{label + ":", choice}})

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.Append(grid)
	box.Append(buttonRow(window, "Remove", func() {
		value := dropDownText(choice, items)
		args := removeArgs(kind, value)
		if args == nil {
			a.alert("Error", "Could not determine what to remove.")
			return
		}
		window.Close()
		a.runConfigCommand("Removed", args, true)
	}))

	window.SetChild(box)
	window.Show()
}

func removeArgs(kind removeKind, value string) []string {
	switch kind {
	case removeConnection:
		return []string{"rm-connection", value}
	case removeDomain:
		return []string{"rm", value}
	case removeLocalForward:
		if m := forwardPort.FindStringSubmatch(value); m != nil {
			return []string{"rm", "-l", m[1]}
		}
	case removeRemoteForward:
		if m := forwardPort.FindStringSubmatch(value); m != nil {
			return []string{"rm", "-r", m[1]}
		}
	}
	return nil
}

// ── Test, reset, browsers ──

func (a *Application) showTestDialog() {
	window := newDialogWindow("Test Target")

	target := gtk.NewEntry()
	target.SetPlaceholderText("domain or port")

	grid := formGrid([]formRow{{"Target *:", target}})

	box := gtk.NewBox(gtk.OrientationVertical, 0)
	box.Append(grid)
	box.Append(buttonRow(window, "Test", func() {
		value := strings.TrimSpace(target.Text())
		if value == "" {
			a.alert("Missing Field", "Target must not be empty.")
			return
		}
		window.Close()
		a.controller.Test(value, func(res proxy.Result) {
			a.showOutputDialog("Test "+value, res.Output)
		})
	}))

	window.SetChild(box)
	window.Show()
	target.GrabFocus()
}

func (a *Application) confirmReset() {
	a.confirm("Reset All",
		"This wipes every connection, domain, and forward from the susops configuration. This cannot be undone.",
		"Reset Everything",
		func() {
			a.controller.Reset(func(res proxy.Result) {
				a.reloadConfig()
				a.showOutputDialog("Reset", res.Output)
			})
		},
		nil)
}

func (a *Application) launchBrowser(b Browser) {
	port := a.store.PACServerPort()
	if port == "0" {
		a.alert("Proxy Not Running", "Start the proxy first so the PAC port is known.")
		return
	}
	if err := LaunchWithPAC(b, port); err != nil {
		a.alert("Launch Failed", err.Error())
	}
}

func (a *Application) openBrowserSettings(b Browser) {
	if err := LaunchSettings(b); err != nil {
		common.LogWarn("Failed to launch %s: %v", b.Name, err)
	}

	// The net-internals URL cannot be opened from the command line, so
	// show it for manual entry.
	window := newDialogWindow("Open Proxy Settings")

	box := gtk.NewBox(gtk.OrientationVertical, 8)
	box.SetMarginTop(12)
	box.SetMarginBottom(8)
	box.SetMarginStart(16)
	box.SetMarginEnd(16)

	label := gtk.NewLabel("Paste this URL into the browser address bar:")
	label.SetXAlign(0)
	box.Append(label)

	view := gtk.NewTextView()
	view.SetMonospace(true)
	view.SetHExpand(true)
	view.Buffer().SetText(ProxySettingsURL)
	box.Append(view)

	okBtn := gtk.NewButtonWithLabel("OK")
	okBtn.AddCSSClass("suggested-action")
	okBtn.SetHAlign(gtk.AlignEnd)
	okBtn.ConnectClicked(func() { window.Close() })
	box.Append(okBtn)

	window.SetChild(box)
	window.Show()

	// Preselect so Ctrl+C copies immediately.
	buf := view.Buffer()
	start, end := buf.Bounds()
	buf.SelectRange(start, end)
	view.GrabFocus()
}
