package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/susops/susops-tray/config"
	"github.com/susops/susops-tray/proxy"
)

// newTestResolver builds a resolver over a synthetic icon tree with a fake
// rasterizer that just creates the PNG file and counts invocations.
func newTestResolver(t *testing.T, svgs []string) (*IconResolver, *int) {
	t.Helper()
	iconsDir := t.TempDir()
	for _, rel := range svgs {
		path := filepath.Join(iconsDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("<svg/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	rasterized := 0
	r := &IconResolver{
		iconsDir:     iconsDir,
		cacheDir:     t.TempDir(),
		fallbackIcon: "fallback.png",
		darkTheme:    func() bool { return false },
		cache:        make(map[string]string),
		rasterize: func(svgPath, pngPath string, size int) error {
			rasterized++
			return os.WriteFile(pngPath, []byte("png"), 0644)
		},
	}
	return r, &rasterized
}

func TestIconResolver_RasterizesOncePerKey(t *testing.T) {
	r, rasterized := newTestResolver(t, []string{"gear/dark/running.svg"})

	first := r.Resolve(config.LogoGear, proxy.StateRunning)
	second := r.Resolve(config.LogoGear, proxy.StateRunning)

	if first == r.fallbackIcon || first == "" {
		t.Fatalf("Resolve returned %q, want a cached PNG path", first)
	}
	if second != first {
		t.Errorf("repeated Resolve returned %q, want %q", second, first)
	}
	if *rasterized != 1 {
		t.Errorf("rasterizer invoked %d times, want 1", *rasterized)
	}
}

func TestIconResolver_StyleFallback(t *testing.T) {
	// Only the default style ships this state.
	r, _ := newTestResolver(t, []string{"colored_glasses/dark/error.svg"})

	got := r.Resolve(config.LogoGear, proxy.StateError)
	if filepath.Base(got) != "colored_glasses_error_dark.png" {
		t.Errorf("Resolve = %q, want the default-style PNG", got)
	}
}

func TestIconResolver_GlobalFallback(t *testing.T) {
	r, rasterized := newTestResolver(t, nil)

	if got := r.Resolve(config.LogoColoredS, proxy.StateStopped); got != "fallback.png" {
		t.Errorf("Resolve = %q, want the fallback icon", got)
	}
	if *rasterized != 0 {
		t.Errorf("rasterizer invoked %d times with no SVGs present, want 0", *rasterized)
	}
}

func TestIconResolver_ThemeVariant(t *testing.T) {
	r, _ := newTestResolver(t, []string{
		"gear/dark/running.svg",
		"gear/light/running.svg",
	})

	light := r.Resolve(config.LogoGear, proxy.StateRunning)
	if filepath.Base(light) != "gear_running_dark.png" {
		t.Errorf("light theme resolved %q, want the dark icon variant", light)
	}

	// A dark desktop theme needs light icons for contrast.
	r.darkTheme = func() bool { return true }
	dark := r.Resolve(config.LogoGear, proxy.StateRunning)
	if filepath.Base(dark) != "gear_running_light.png" {
		t.Errorf("dark theme resolved %q, want the light icon variant", dark)
	}
}

func TestIconResolver_StateKeys(t *testing.T) {
	r, _ := newTestResolver(t, []string{
		"colored_glasses/dark/running.svg",
		"colored_glasses/dark/stopped.svg",
		"colored_glasses/dark/stopped_partially.svg",
		"colored_glasses/dark/error.svg",
	})

	tests := []struct {
		state proxy.ProcessState
		want  string
	}{
		{proxy.StateRunning, "colored_glasses_running_dark.png"},
		{proxy.StateStopped, "colored_glasses_stopped_dark.png"},
		{proxy.StateInitial, "colored_glasses_stopped_dark.png"},
		{proxy.StateStoppedPartially, "colored_glasses_stopped_partially_dark.png"},
		{proxy.StateError, "colored_glasses_error_dark.png"},
	}
	for _, tt := range tests {
		if got := r.Resolve(config.DefaultLogoStyle, tt.state); filepath.Base(got) != tt.want {
			t.Errorf("Resolve(%v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestIconResolver_ResolveBytes(t *testing.T) {
	r, _ := newTestResolver(t, []string{"gear/dark/running.svg"})

	data := r.ResolveBytes(config.LogoGear, proxy.StateRunning)
	if string(data) != "png" {
		t.Errorf("ResolveBytes = %q, want the rasterized PNG contents", data)
	}

	r.fallbackIcon = ""
	if data := r.ResolveBytes(config.LogoGear, proxy.StateError); data != nil {
		t.Errorf("ResolveBytes = %v for an unresolvable icon, want nil", data)
	}
}
