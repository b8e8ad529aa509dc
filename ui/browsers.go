package ui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/susops/susops-tray/common"
)

// Browser describes an installed browser the tray can launch with PAC
// proxying preconfigured.
type Browser struct {
	Name string
	// Exe is the resolved executable path.
	Exe string
	// Chromium marks browsers that accept --proxy-pac-url. Firefox needs
	// a throwaway profile instead.
	Chromium bool
	// Settings marks browsers with a reachable proxy-settings page.
	Settings bool
}

type browserDef struct {
	name        string
	executables []string
	chromium    bool
	settings    bool
}

var browserDefs = []browserDef{
	{"Chrome", []string{"google-chrome", "google-chrome-stable"}, true, true},
	{"Chromium", []string{"chromium", "chromium-browser"}, true, true},
	{"Brave", []string{"brave-browser", "brave", "brave-browser-stable"}, true, true},
	{"Vivaldi", []string{"vivaldi", "vivaldi-stable"}, true, false},
	{"Opera", []string{"opera"}, true, false},
	{"Edge", []string{"microsoft-edge", "microsoft-edge-stable"}, true, false},
	{"Firefox", []string{"firefox", "firefox-bin"}, false, false},
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// DiscoverBrowsers returns the installed browsers in a stable order.
func DiscoverBrowsers() []Browser {
	var found []Browser
	for _, def := range browserDefs {
		for _, name := range def.executables {
			if path, err := lookPath(name); err == nil {
				found = append(found, Browser{
					Name:     def.name,
					Exe:      path,
					Chromium: def.chromium,
					Settings: def.settings,
				})
				break
			}
		}
	}
	return found
}

// PACURL returns the proxy auto-config URL served by the local PAC server.
func PACURL(port string) string {
	return fmt.Sprintf("http://localhost:%s/susops.pac", port)
}

// LaunchWithPAC starts the browser configured to route through the PAC
// file on the given port. Chromium-family browsers take the URL on the
// command line; Firefox gets a dedicated profile with the matching
// user.js so the user's main profile is untouched.
func LaunchWithPAC(b Browser, port string) error {
	if port == "0" {
		return common.WrapError(common.ErrInvalidPort, "PAC server port is not known, start the proxy first")
	}

	if b.Chromium {
		return launchBrowser(b.Exe, "--proxy-pac-url="+PACURL(port))
	}

	profile := filepath.Join(common.WorkspaceDir(), "firefox_profile")
	if err := writeFirefoxProfile(profile, port); err != nil {
		return err
	}
	return launchBrowser(b.Exe, "-profile", profile, "-no-remote")
}

// LaunchSettings opens the browser so the user can reach its proxy
// settings page. The chrome://net-internals URL cannot be passed as an
// argument, so the caller shows it for manual entry.
func LaunchSettings(b Browser) error {
	return launchBrowser(b.Exe)
}

// ProxySettingsURL is the page Chromium-family browsers expose for
// inspecting the active proxy configuration.
const ProxySettingsURL = "chrome://net-internals/#proxy"

func writeFirefoxProfile(profile, port string) error {
	if err := os.MkdirAll(profile, 0755); err != nil {
		return common.WrapError(err, "failed to create firefox profile directory")
	}
	userJS := fmt.Sprintf("user_pref(\"network.proxy.type\", 2);\nuser_pref(\"network.proxy.autoconfig_url\", %q);\n",
		PACURL(port))
	if err := os.WriteFile(filepath.Join(profile, "user.js"), []byte(userJS), 0644); err != nil {
		return common.WrapError(err, "failed to write firefox profile")
	}
	return nil
}

func launchBrowser(exe string, args ...string) error {
	cmd := exec.Command(exe, args...)
	if err := cmd.Start(); err != nil {
		return common.WrapError(err, "failed to launch browser")
	}
	common.LogInfo("Launched %s %v", exe, args)
	// Detach; the browser outlives the tray.
	go func() { _ = cmd.Wait() }()
	return nil
}

// OpenPath opens a file or URL with the desktop's default handler.
func OpenPath(path string) {
	cmd := exec.Command("xdg-open", path)
	if err := cmd.Start(); err != nil {
		common.LogWarn("Failed to open %s: %v", path, err)
		return
	}
	go func() { _ = cmd.Wait() }()
}
