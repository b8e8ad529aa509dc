// Package ui provides the graphical front end of the SusOps tray.
// This file contains desktop notifications for proxy events.
package ui

import (
	"os/exec"

	"github.com/godbus/dbus/v5"

	"github.com/susops/susops-tray/common"
)

// NotificationType represents the type of notification.
type NotificationType int

const (
	NotificationInfo NotificationType = iota
	NotificationSuccess
	NotificationWarning
	NotificationError
)

// Notification represents a system notification.
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
	Icon    string
}

// ShowNotification delivers a desktop notification over the
// org.freedesktop.Notifications bus, falling back to notify-send when the
// session bus is unreachable.
func ShowNotification(n Notification) {
	icon := n.Icon
	if icon == "" {
		switch n.Type {
		case NotificationWarning:
			icon = "dialog-warning"
		case NotificationError:
			icon = "dialog-error"
		default:
			icon = common.AppID
		}
	}

	if notifyViaBus(n, icon) {
		return
	}
	notifyViaCommand(n, icon)
}

func notifyViaBus(n Notification, icon string) bool {
	conn, err := dbus.SessionBus()
	if err != nil {
		return false
	}

	// Urgency hint per the freedesktop notification spec: 0 low, 1
	// normal, 2 critical.
	urgency := byte(1)
	switch n.Type {
	case NotificationError:
		urgency = 2
	case NotificationInfo, NotificationSuccess:
		urgency = 0
	}

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		common.AppName, // app_name
		uint32(0),      // replaces_id
		icon,           // app_icon
		n.Title,        // summary
		n.Message,      // body
		[]string{},     // actions
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgency)},
		int32(-1), // expire_timeout
	)
	if call.Err != nil {
		common.LogDebug("Notification bus call failed: %v", call.Err)
		return false
	}
	return true
}

func notifyViaCommand(n Notification, icon string) {
	urgency := "normal"
	switch n.Type {
	case NotificationError:
		urgency = "critical"
	case NotificationInfo, NotificationSuccess:
		urgency = "low"
	}

	cmd := exec.Command("notify-send",
		"--app-name="+common.AppName,
		"--icon="+icon,
		"--urgency="+urgency,
		n.Title,
		n.Message,
	)
	if err := cmd.Run(); err != nil {
		common.LogWarn("Error showing notification: %v", err)
	}
}

// NotifyProxyStarted shows a notification when the proxy comes up.
func NotifyProxyStarted() {
	ShowNotification(Notification{
		Title:   "SusOps Proxy Started",
		Message: "SSH tunnels and PAC routing are active",
		Type:    NotificationSuccess,
	})
}

// NotifyProxyStopped shows a notification when the proxy goes down.
func NotifyProxyStopped() {
	ShowNotification(Notification{
		Title:   "SusOps Proxy Stopped",
		Message: "SSH tunnels are closed",
		Type:    NotificationInfo,
	})
}

// NotifyCommandFailed shows a notification for a failed proxy command.
func NotifyCommandFailed(output string) {
	ShowNotification(Notification{
		Title:   "SusOps Command Failed",
		Message: output,
		Type:    NotificationError,
	})
}
