package config

import "strings"

// LogoStyle selects which icon family the tray renders. The value is
// persisted upper-case under .susops_app.logo_style; the matching icon
// directory uses the lower-case form.
type LogoStyle string

const (
	LogoGear           LogoStyle = "GEAR"
	LogoColoredGlasses LogoStyle = "COLORED_GLASSES"
	LogoColoredS       LogoStyle = "COLORED_S"
)

// DefaultLogoStyle is used when the config carries no style or an
// unrecognized one.
const DefaultLogoStyle = LogoColoredGlasses

// AllLogoStyles lists the selectable styles in settings-dialog order.
func AllLogoStyles() []LogoStyle {
	return []LogoStyle{LogoGear, LogoColoredGlasses, LogoColoredS}
}

// ParseLogoStyle normalizes a persisted style value, falling back to the
// default for anything unknown.
func ParseLogoStyle(raw string) LogoStyle {
	switch LogoStyle(strings.ToUpper(strings.TrimSpace(raw))) {
	case LogoGear:
		return LogoGear
	case LogoColoredGlasses:
		return LogoColoredGlasses
	case LogoColoredS:
		return LogoColoredS
	default:
		return DefaultLogoStyle
	}
}

// DirName returns the icon directory component for the style.
func (s LogoStyle) DirName() string {
	return strings.ToLower(string(s))
}

// DisplayName returns the human-readable form shown in the settings
// dialog, e.g. "Colored Glasses".
func (s LogoStyle) DisplayName() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
