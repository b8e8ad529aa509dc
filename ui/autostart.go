package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/susops/susops-tray/common"
)

// AutostartEnabled reports whether the XDG autostart entry is installed.
func AutostartEnabled() bool {
	return common.FileExists(filepath.Join(common.AutostartDir(), common.AutostartFileName))
}

// SetAutostart installs or removes the XDG autostart entry for the current
// executable. Removing an entry that does not exist is not an error.
func SetAutostart(enabled bool) error {
	exe, err := os.Executable()
	if err != nil {
		return common.WrapError(err, "failed to resolve executable path")
	}
	return applyAutostart(common.AutostartDir(), exe, enabled)
}

func applyAutostart(dir, execPath string, enabled bool) error {
	path := filepath.Join(dir, common.AutostartFileName)

	if !enabled {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return common.WrapError(err, "failed to remove autostart entry")
		}
		common.LogInfo("Autostart entry removed")
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return common.WrapError(err, "failed to create autostart directory")
	}
	content := fmt.Sprintf(`[Desktop Entry]
Name=%s
Exec=%s
Icon=%s
Type=Application
X-GNOME-Autostart-enabled=true
`, common.AppName, execPath, common.AppID)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return common.WrapError(err, "failed to write autostart entry")
	}
	common.LogInfo("Autostart entry installed at %s", path)
	return nil
}
