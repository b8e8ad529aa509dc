package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/proxy"
)

// emptyForward is what the display query renders for a forward entry with
// no usable fields; such rows are dropped.
const emptyForward = "( → )"

// runFunc executes an external command and captures its result. It matches
// proxy.Capture and exists so tests can substitute a fake.
type runFunc func(name string, args []string, timeout time.Duration) proxy.Result

// Store is the query layer over the susops config document.
type Store struct {
	path string
	yq   string
	run  runFunc
}

// NewStore returns a Store bound to the default config document, resolving
// yq from PATH once.
func NewStore() *Store {
	return newStore(common.ProxyConfigPath())
}

func newStore(path string) *Store {
	s := &Store{path: path, run: proxy.Capture}
	if yq, err := exec.LookPath("yq"); err == nil {
		s.yq = yq
	} else {
		common.LogWarn("yq not found on PATH, config reads use built-in YAML parsing and writes are unavailable")
	}
	return s
}

// Path returns the location of the config document.
func (s *Store) Path() string {
	return s.path
}

// Read evaluates a yq expression against the config document and returns
// its trimmed output, or def when the document is missing, the query
// fails, or yq prints null.
func (s *Store) Read(query, def string) string {
	if !common.FileExists(s.path) {
		return def
	}
	if s.yq == "" {
		return s.fallbackRead(query, def)
	}
	res := s.run(s.yq, []string{"e", query, s.path}, common.ConfigQueryTimeout)
	if res.ExitCode != 0 || res.Output == "null" {
		return def
	}
	return res.Output
}

// Write applies an in-place yq assignment to the config document, creating
// the workspace directory first.
func (s *Store) Write(query string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return common.WrapError(err, "failed to create workspace directory")
	}
	if s.yq == "" {
		return common.WrapError(common.ErrConfigWrite, "yq is required for config writes")
	}
	res := s.run(s.yq, []string{"e", "-i", query, s.path}, common.ConfigQueryTimeout)
	if res.ExitCode != 0 {
		common.LogError("Config write failed (rc=%d): %s", res.ExitCode, res.Output)
		return common.WrapError(common.ErrConfigWrite, res.Output)
	}
	return nil
}

// fallbackPath matches the simple dotted scalar paths the fallback reader
// supports, e.g. ".pac_server_port" or ".susops_app.logo_style".
var fallbackPath = regexp.MustCompile(`^\.[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

// fallbackRead resolves simple scalar queries without yq. Structured
// queries (lists, pipes) are not supported and return def.
func (s *Store) fallbackRead(query, def string) string {
	if !fallbackPath.MatchString(query) {
		return def
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return def
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		common.LogWarn("Config document is not valid YAML: %v", err)
		return def
	}

	var node any = doc
	for _, key := range strings.Split(strings.TrimPrefix(query, "."), ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return def
		}
		node, ok = m[key]
		if !ok {
			return def
		}
	}
	switch v := node.(type) {
	case string:
		return v
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	default:
		return def
	}
}

// ConnectionTags lists the tags of all configured SSH connections.
func (s *Store) ConnectionTags() []string {
	return splitNonEmpty(s.Read(`.connections[].tag`, ""))
}

// Domains lists every PAC-routed domain across all connections.
func (s *Store) Domains() []string {
	return splitNonEmpty(s.Read(`.connections[].pac_hosts[]`, ""))
}

// LocalForwards lists local port forwards as display strings of the form
// `tag (src → dst)`.
func (s *Store) LocalForwards() []string {
	q := `.connections[].forwards.local[] | "\(.tag) (\((.src_port // .src)) → \((.dst_port // .dst)))"`
	return filterForwards(s.Read(q, ""))
}

// RemoteForwards lists remote port forwards in the same display form as
// LocalForwards.
func (s *Store) RemoteForwards() []string {
	q := `.connections[].forwards.remote[] | "\(.tag) (\((.src_port // .src)) → \((.dst_port // .dst)))"`
	return filterForwards(s.Read(q, ""))
}

// PACServerPort returns the port of the PAC file server, "0" when unset.
func (s *Store) PACServerPort() string {
	return s.Read(`.pac_server_port`, "0")
}

func splitNonEmpty(out string) []string {
	var items []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

func filterForwards(out string) []string {
	var items []string
	for _, f := range splitNonEmpty(out) {
		if f != emptyForward {
			items = append(items, f)
		}
	}
	return items
}

// AppConfig is the snapshot of tray-owned settings stored inside the
// susops document under .susops_app (plus the shared PAC server port).
type AppConfig struct {
	// PACServerPort is the PAC file server port, "0" when the server is
	// disabled.
	PACServerPort string
	// StopOnQuit stops the proxy when the tray exits.
	StopOnQuit bool
	// EphemeralPorts releases allocated ports on stop; when false the
	// stop command passes --keep-ports.
	EphemeralPorts bool
	// LogoStyle selects the tray icon family.
	LogoStyle LogoStyle
}

// DefaultAppConfig returns the settings applied to a fresh installation.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		PACServerPort:  "0",
		StopOnQuit:     true,
		EphemeralPorts: true,
		LogoStyle:      DefaultLogoStyle,
	}
}

// LoadAppConfig reads the tray settings from the config document. Missing
// or malformed values fall back to the defaults.
func (s *Store) LoadAppConfig() AppConfig {
	return AppConfig{
		PACServerPort:  s.Read(`.pac_server_port`, "0"),
		StopOnQuit:     s.Read(`.susops_app.stop_on_quit`, "1") == "1",
		EphemeralPorts: s.Read(`.susops_app.ephemeral_ports`, "1") == "1",
		LogoStyle:      ParseLogoStyle(s.Read(`.susops_app.logo_style`, string(DefaultLogoStyle))),
	}
}

// SaveAppConfig persists the tray settings. The PAC port is written as a
// bare number; the boolean switches follow the CLI's "1"/"0" string
// convention.
func (s *Store) SaveAppConfig(cfg AppConfig) error {
	port := cfg.PACServerPort
	if port != "0" && !common.IsValidPort(port) {
		return common.WrapError(common.ErrInvalidPort, fmt.Sprintf("pac server port %q", port))
	}
	writes := []string{
		fmt.Sprintf(`.pac_server_port = %s`, port),
		fmt.Sprintf(`.susops_app.stop_on_quit = "%s"`, boolFlag(cfg.StopOnQuit)),
		fmt.Sprintf(`.susops_app.ephemeral_ports = "%s"`, boolFlag(cfg.EphemeralPorts)),
		fmt.Sprintf(`.susops_app.logo_style = "%s"`, cfg.LogoStyle),
	}
	for _, q := range writes {
		if err := s.Write(q); err != nil {
			return err
		}
	}
	common.LogInfo("Settings saved: pac_port=%s stop_on_quit=%v ephemeral_ports=%v logo_style=%s",
		port, cfg.StopOnQuit, cfg.EphemeralPorts, cfg.LogoStyle)
	return nil
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
