// Package ui provides the graphical front end of the SusOps tray.
//
// The tray indicator runs on fyne.io/systray; dialogs run on GTK4. Both
// funnel their work onto the GTK main loop through the Application's
// Dispatcher, which keeps controller state, icon resolution, and widget
// access on a single context.
package ui
