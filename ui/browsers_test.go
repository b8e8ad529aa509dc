package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/susops/susops-tray/common"
)

func TestDiscoverBrowsers(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	installed := map[string]string{
		"google-chrome-stable": "/usr/bin/google-chrome-stable",
		"firefox":              "/usr/bin/firefox",
	}
	lookPath = func(name string) (string, error) {
		if path, ok := installed[name]; ok {
			return path, nil
		}
		return "", errors.New("not found")
	}

	got := DiscoverBrowsers()
	if len(got) != 2 {
		t.Fatalf("DiscoverBrowsers() = %v, want Chrome and Firefox", got)
	}
	if got[0].Name != "Chrome" || !got[0].Chromium || got[0].Exe != "/usr/bin/google-chrome-stable" {
		t.Errorf("first browser = %+v, want Chrome via its stable binary", got[0])
	}
	if got[1].Name != "Firefox" || got[1].Chromium {
		t.Errorf("second browser = %+v, want non-chromium Firefox", got[1])
	}
}

func TestDiscoverBrowsers_FirstExecutableWins(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(name string) (string, error) {
		// Every candidate resolves; each browser must still appear once.
		return "/usr/bin/" + name, nil
	}

	got := DiscoverBrowsers()
	if len(got) != len(browserDefs) {
		t.Fatalf("found %d browsers, want %d", len(got), len(browserDefs))
	}
	if got[0].Exe != "/usr/bin/google-chrome" {
		t.Errorf("Chrome resolved to %q, want the first candidate", got[0].Exe)
	}
}

func TestPACURL(t *testing.T) {
	if got := PACURL("8090"); got != "http://localhost:8090/susops.pac" {
		t.Errorf("PACURL = %q", got)
	}
}

func TestLaunchWithPAC_RefusesUnknownPort(t *testing.T) {
	err := LaunchWithPAC(Browser{Name: "Chrome", Exe: "/usr/bin/google-chrome", Chromium: true}, "0")
	if !errors.Is(err, common.ErrInvalidPort) {
		t.Errorf("LaunchWithPAC error = %v, want ErrInvalidPort", err)
	}
}

func TestWriteFirefoxProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "firefox_profile")

	if err := writeFirefoxProfile(profile, "8090"); err != nil {
		t.Fatalf("writeFirefoxProfile returned %v", err)
	}

	data, err := os.ReadFile(filepath.Join(profile, "user.js"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, `user_pref("network.proxy.type", 2);`) {
		t.Errorf("user.js missing proxy type pref:\n%s", content)
	}
	if !strings.Contains(content, `"http://localhost:8090/susops.pac"`) {
		t.Errorf("user.js missing PAC URL:\n%s", content)
	}
}
