package ui

import (
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/proxy"
)

const (
	portalBusName   = "org.freedesktop.portal.Desktop"
	portalObject    = "/org/freedesktop/portal/desktop"
	portalSettings  = "org.freedesktop.portal.Settings.Read"
	appearanceNS    = "org.freedesktop.appearance"
	colorSchemeKey  = "color-scheme"
	colorSchemeDark = uint32(1)
)

// IsDarkTheme reports whether the desktop prefers a dark color scheme.
// The settings portal is asked first; desktops without a portal fall back
// to the GNOME gtk-theme name. Unknown environments count as light.
func IsDarkTheme() bool {
	if dark, ok := portalPrefersDark(); ok {
		return dark
	}
	return gnomeThemeIsDark()
}

// portalPrefersDark reads org.freedesktop.appearance color-scheme from the
// XDG settings portal. The second return is false when the portal is
// unreachable or does not expose the key.
func portalPrefersDark() (bool, bool) {
	conn, err := dbus.SessionBus()
	if err != nil {
		common.LogDebug("Session bus unavailable for theme detection: %v", err)
		return false, false
	}

	obj := conn.Object(portalBusName, dbus.ObjectPath(portalObject))
	var value dbus.Variant
	if err := obj.Call(portalSettings, 0, appearanceNS, colorSchemeKey).Store(&value); err != nil {
		common.LogDebug("Settings portal read failed: %v", err)
		return false, false
	}

	// The portal wraps the setting in an extra variant layer.
	inner := value.Value()
	if v, ok := inner.(dbus.Variant); ok {
		inner = v.Value()
	}
	scheme, ok := inner.(uint32)
	if !ok {
		return false, false
	}
	return scheme == colorSchemeDark, true
}

func gnomeThemeIsDark() bool {
	res := proxy.Capture("gsettings",
		[]string{"get", "org.gnome.desktop.interface", "gtk-theme"},
		common.ThemeQueryTimeout)
	if res.ExitCode != 0 {
		return false
	}
	return strings.Contains(strings.ToLower(res.Output), "dark")
}
