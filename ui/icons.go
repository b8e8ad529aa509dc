package ui

import (
	"os"
	"path/filepath"

	"github.com/diamondburned/gotk4/pkg/gdkpixbuf/v2"

	"github.com/susops/susops-tray/common"
	"github.com/susops/susops-tray/config"
	"github.com/susops/susops-tray/proxy"
)

// IconResolver maps a (logo style, process state) pair to a tray-sized PNG.
// Source icons ship as SVGs under <iconsDir>/<style>/<variant>/<state>.svg;
// resolved PNGs land in the per-user cache so the SVG is rasterized at most
// once per key. Not safe for concurrent use; call on the dispatch context.
type IconResolver struct {
	iconsDir string
	cacheDir string
	// fallbackIcon is returned when no SVG can be resolved, typically the
	// installed application icon. May be empty.
	fallbackIcon string

	rasterize func(svgPath, pngPath string, size int) error
	darkTheme func() bool

	cache map[string]string
}

// NewIconResolver creates a resolver rooted at iconsDir. The cache
// directory is created eagerly; a failure there disables caching but not
// resolution of the fallback icon.
func NewIconResolver(iconsDir, fallbackIcon string) *IconResolver {
	cacheDir, err := common.IconCacheDir()
	if err != nil {
		common.LogWarn("Icon cache unavailable: %v", err)
	}
	return &IconResolver{
		iconsDir:     iconsDir,
		cacheDir:     cacheDir,
		fallbackIcon: fallbackIcon,
		rasterize:    rasterizeSVG,
		darkTheme:    IsDarkTheme,
		cache:        make(map[string]string),
	}
}

// Resolve returns the PNG path for the given style and state, or the
// fallback icon when the style directory is incomplete and the default
// style cannot serve the state either. The theme is probed on every call
// so a desktop theme switch takes effect on the next state change.
func (r *IconResolver) Resolve(style config.LogoStyle, state proxy.ProcessState) string {
	if r.iconsDir == "" || r.cacheDir == "" {
		return r.fallbackIcon
	}

	variant := "dark"
	if r.darkTheme() {
		variant = "light"
	}
	name := state.IconKey()

	styleDir := style.DirName()
	svg := filepath.Join(r.iconsDir, styleDir, variant, name+".svg")
	if !common.FileExists(svg) {
		styleDir = config.DefaultLogoStyle.DirName()
		svg = filepath.Join(r.iconsDir, styleDir, variant, name+".svg")
		if !common.FileExists(svg) {
			return r.fallbackIcon
		}
	}

	key := styleDir + "_" + name + "_" + variant
	if png, ok := r.cache[key]; ok && common.FileExists(png) {
		return png
	}

	png := filepath.Join(r.cacheDir, key+".png")
	if !common.FileExists(png) {
		if err := r.rasterize(svg, png, common.TrayIconSize); err != nil {
			common.LogWarn("Failed to rasterize %s: %v", svg, err)
			return r.fallbackIcon
		}
	}
	r.cache[key] = png
	return png
}

// ResolveBytes returns the raw PNG for systray.SetIcon, or nil when no
// icon resolves.
func (r *IconResolver) ResolveBytes(style config.LogoStyle, state proxy.ProcessState) []byte {
	path := r.Resolve(style, state)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		common.LogWarn("Failed to read icon %s: %v", path, err)
		return nil
	}
	return data
}

func rasterizeSVG(svgPath, pngPath string, size int) error {
	pb, err := gdkpixbuf.NewPixbufFromFileAtSize(svgPath, size, size)
	if err != nil {
		return common.WrapError(err, "failed to load SVG")
	}
	if err := pb.Savev(pngPath, "png", nil, nil); err != nil {
		return common.WrapError(err, "failed to write PNG")
	}
	return nil
}
