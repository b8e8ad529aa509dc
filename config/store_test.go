package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/proxy"
)

// fakeRun records yq invocations and serves canned results per query.
type fakeRun struct {
	calls   []string
	results map[string]proxy.Result
}

func (f *fakeRun) run(name string, args []string, timeout time.Duration) proxy.Result {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	// The query is the argument after "e" (and the optional "-i").
	query := args[1]
	if query == "-i" {
		query = args[2]
	}
	if res, ok := f.results[query]; ok {
		return res
	}
	return proxy.Result{Output: "", ExitCode: 0}
}

func newTestStore(t *testing.T, fake *fakeRun) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pac_server_port: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return &Store{path: path, yq: "/usr/bin/yq", run: fake.run}
}

func TestStore_Read(t *testing.T) {
	fake := &fakeRun{results: map[string]proxy.Result{
		".pac_server_port":  {Output: "8080", ExitCode: 0},
		".missing":          {Output: "null", ExitCode: 0},
		".broken":           {Output: "yq: parse error", ExitCode: 1},
		".susops_app.blank": {Output: "", ExitCode: 0},
	}}
	s := newTestStore(t, fake)

	if got := s.Read(".pac_server_port", "0"); got != "8080" {
		t.Errorf("Read(.pac_server_port) = %q, want %q", got, "8080")
	}
	if got := s.Read(".missing", "fallback"); got != "fallback" {
		t.Errorf("null output: Read = %q, want the default", got)
	}
	if got := s.Read(".broken", "fallback"); got != "fallback" {
		t.Errorf("failed query: Read = %q, want the default", got)
	}
	if got := s.Read(".susops_app.blank", "fallback"); got != "" {
		t.Errorf("empty output with rc 0: Read = %q, want empty", got)
	}
}

func TestStore_Read_MissingDocument(t *testing.T) {
	fake := &fakeRun{}
	s := &Store{path: filepath.Join(t.TempDir(), "config.yaml"), yq: "/usr/bin/yq", run: fake.run}

	if got := s.Read(".pac_server_port", "0"); got != "0" {
		t.Errorf("Read = %q, want the default", got)
	}
	if len(fake.calls) != 0 {
		t.Errorf("yq invoked %d times for a missing document, want 0", len(fake.calls))
	}
}

func TestStore_Write(t *testing.T) {
	fake := &fakeRun{results: map[string]proxy.Result{}}
	s := newTestStore(t, fake)

	if err := s.Write(`.pac_server_port = 9090`); err != nil {
		t.Fatalf("Write returned %v", err)
	}
	if len(fake.calls) != 1 || !strings.Contains(fake.calls[0], "e -i .pac_server_port = 9090") {
		t.Errorf("calls = %v, want an in-place yq eval", fake.calls)
	}
}

func TestStore_Write_Failure(t *testing.T) {
	fake := &fakeRun{results: map[string]proxy.Result{
		`.bad = "x"`: {Output: "yq: bad expression", ExitCode: 1},
	}}
	s := newTestStore(t, fake)

	err := s.Write(`.bad = "x"`)
	if !errors.Is(err, common.ErrConfigWrite) {
		t.Errorf("Write error = %v, want ErrConfigWrite", err)
	}
}

func TestStore_Write_RequiresYq(t *testing.T) {
	s := &Store{path: filepath.Join(t.TempDir(), "config.yaml")}

	err := s.Write(`.pac_server_port = 1`)
	if !errors.Is(err, common.ErrConfigWrite) {
		t.Errorf("Write error = %v, want ErrConfigWrite", err)
	}
}

func TestStore_ConnectionTags(t *testing.T) {
	fake := &fakeRun{results: map[string]proxy.Result{
		".connections[].tag": {Output: "work\n\nhome\n", ExitCode: 0},
	}}
	s := newTestStore(t, fake)

	got := s.ConnectionTags()
	want := []string{"work", "home"}
	if len(got) != len(want) {
		t.Fatalf("ConnectionTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ConnectionTags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStore_LocalForwards_DropsEmptyRows(t *testing.T) {
	q := `.connections[].forwards.local[] | "\(.tag) (\((.src_port // .src)) → \((.dst_port // .dst)))"`
	fake := &fakeRun{results: map[string]proxy.Result{
		q: {Output: "db (5432 → 5432)\n( → )\nweb (8000 → 80)", ExitCode: 0},
	}}
	s := newTestStore(t, fake)

	got := s.LocalForwards()
	if len(got) != 2 || got[0] != "db (5432 → 5432)" || got[1] != "web (8000 → 80)" {
		t.Errorf("LocalForwards() = %v, want the placeholder row dropped", got)
	}
}

func TestStore_LoadAppConfig_Defaults(t *testing.T) {
	fake := &fakeRun{results: map[string]proxy.Result{
		".pac_server_port":            {Output: "null", ExitCode: 0},
		".susops_app.stop_on_quit":    {Output: "null", ExitCode: 0},
		".susops_app.ephemeral_ports": {Output: "null", ExitCode: 0},
		".susops_app.logo_style":      {Output: "null", ExitCode: 0},
	}}
	s := newTestStore(t, fake)

	cfg := s.LoadAppConfig()
	if cfg != DefaultAppConfig() {
		t.Errorf("LoadAppConfig() = %+v, want defaults %+v", cfg, DefaultAppConfig())
	}
}

func TestStore_LoadAppConfig(t *testing.T) {
	fake := &fakeRun{results: map[string]proxy.Result{
		".pac_server_port":            {Output: "8090", ExitCode: 0},
		".susops_app.stop_on_quit":    {Output: "0", ExitCode: 0},
		".susops_app.ephemeral_ports": {Output: "1", ExitCode: 0},
		".susops_app.logo_style":      {Output: "gear", ExitCode: 0},
	}}
	s := newTestStore(t, fake)

	cfg := s.LoadAppConfig()
	if cfg.PACServerPort != "8090" {
		t.Errorf("PACServerPort = %q, want %q", cfg.PACServerPort, "8090")
	}
	if cfg.StopOnQuit {
		t.Error("StopOnQuit should be false for \"0\"")
	}
	if !cfg.EphemeralPorts {
		t.Error("EphemeralPorts should be true for \"1\"")
	}
	if cfg.LogoStyle != LogoGear {
		t.Errorf("LogoStyle = %v, want LogoGear", cfg.LogoStyle)
	}
}

func TestStore_SaveAppConfig(t *testing.T) {
	fake := &fakeRun{results: map[string]proxy.Result{}}
	s := newTestStore(t, fake)

	cfg := AppConfig{
		PACServerPort:  "9090",
		StopOnQuit:     false,
		EphemeralPorts: true,
		LogoStyle:      LogoColoredS,
	}
	if err := s.SaveAppConfig(cfg); err != nil {
		t.Fatalf("SaveAppConfig returned %v", err)
	}

	joined := strings.Join(fake.calls, "\n")
	for _, want := range []string{
		`.pac_server_port = 9090`,
		`.susops_app.stop_on_quit = "0"`,
		`.susops_app.ephemeral_ports = "1"`,
		`.susops_app.logo_style = "COLORED_S"`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("writes missing %q, got:\n%s", want, joined)
		}
	}
}

func TestStore_SaveAppConfig_InvalidPort(t *testing.T) {
	fake := &fakeRun{}
	s := newTestStore(t, fake)

	cfg := DefaultAppConfig()
	cfg.PACServerPort = "70000"
	err := s.SaveAppConfig(cfg)
	if !errors.Is(err, common.ErrInvalidPort) {
		t.Errorf("SaveAppConfig error = %v, want ErrInvalidPort", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("yq invoked %d times for an invalid port, want 0", len(fake.calls))
	}
}

func TestStore_FallbackRead(t *testing.T) {
	doc := `pac_server_port: 8080
susops_app:
  stop_on_quit: "0"
  logo_style: GEAR
connections:
  - tag: work
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	s := &Store{path: path} // no yq resolved

	tests := []struct {
		query, def, expected string
	}{
		{".pac_server_port", "0", "8080"},
		{".susops_app.stop_on_quit", "1", "0"},
		{".susops_app.logo_style", "COLORED_GLASSES", "GEAR"},
		{".susops_app.missing", "dflt", "dflt"},
		{".connections", "dflt", "dflt"},            // non-scalar
		{".connections[].tag", "dflt", "dflt"},      // structured query unsupported
		{".pac_server_port.nested", "dflt", "dflt"}, // scalar has no children
	}

	for _, tt := range tests {
		if got := s.Read(tt.query, tt.def); got != tt.expected {
			t.Errorf("Read(%q) = %q, want %q", tt.query, got, tt.expected)
		}
	}
}
