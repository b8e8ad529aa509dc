package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsValidPort(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"1", true},
		{"80", true},
		{"8080", true},
		{"65535", true},
		{"0", false},
		{"65536", false},
		{"", false},
		{"-1", false},
		{"abc", false},
		{"80a", false},
		{"123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := IsValidPort(tt.value); got != tt.valid {
				t.Errorf("IsValidPort(%q) = %v, want %v", tt.value, got, tt.valid)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	tempFile, err := os.CreateTemp("", "test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tempFile.Name())
	tempFile.Close()

	if !FileExists(tempFile.Name()) {
		t.Error("FileExists() should return true for existing file")
	}

	if FileExists("/nonexistent/path/to/file") {
		t.Error("FileExists() should return false for non-existing file")
	}
}

func TestParseSSHHosts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := `# my ssh config
Host dev
    HostName dev.example.com

Host staging prod
    User deploy

Host *.internal
Host bastion? other
host lowercase
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	hosts := ParseSSHHosts(path)
	want := []string{"dev", "staging", "prod", "other", "lowercase"}

	if len(hosts) != len(want) {
		t.Fatalf("ParseSSHHosts() = %v, want %v", hosts, want)
	}
	for i := range want {
		if hosts[i] != want[i] {
			t.Errorf("hosts[%d] = %q, want %q", i, hosts[i], want[i])
		}
	}
}

func TestParseSSHHosts_Missing(t *testing.T) {
	if hosts := ParseSSHHosts("/nonexistent/ssh/config"); hosts != nil {
		t.Errorf("ParseSSHHosts() on missing file = %v, want nil", hosts)
	}
}
