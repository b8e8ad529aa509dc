package config

import "testing"

func TestParseLogoStyle(t *testing.T) {
	tests := []struct {
		raw      string
		expected LogoStyle
	}{
		{"GEAR", LogoGear},
		{"gear", LogoGear},
		{"COLORED_GLASSES", LogoColoredGlasses},
		{"colored_s", LogoColoredS},
		{" Colored_Glasses ", LogoColoredGlasses},
		{"", DefaultLogoStyle},
		{"SOMETHING_ELSE", DefaultLogoStyle},
		{"null", DefaultLogoStyle},
	}

	for _, tt := range tests {
		if got := ParseLogoStyle(tt.raw); got != tt.expected {
			t.Errorf("ParseLogoStyle(%q) = %v, want %v", tt.raw, got, tt.expected)
		}
	}
}

func TestLogoStyle_DirName(t *testing.T) {
	if got := LogoColoredGlasses.DirName(); got != "colored_glasses" {
		t.Errorf("DirName() = %q, want %q", got, "colored_glasses")
	}
	if got := LogoGear.DirName(); got != "gear" {
		t.Errorf("DirName() = %q, want %q", got, "gear")
	}
}

func TestLogoStyle_DisplayName(t *testing.T) {
	tests := []struct {
		style    LogoStyle
		expected string
	}{
		{LogoGear, "Gear"},
		{LogoColoredGlasses, "Colored Glasses"},
		{LogoColoredS, "Colored S"},
	}

	for _, tt := range tests {
		if got := tt.style.DisplayName(); got != tt.expected {
			t.Errorf("%v.DisplayName() = %q, want %q", tt.style, got, tt.expected)
		}
	}
}

func TestAllLogoStyles_CoversDefault(t *testing.T) {
	found := false
	for _, s := range AllLogoStyles() {
		if s == DefaultLogoStyle {
			found = true
		}
	}
	if !found {
		t.Error("default style missing from AllLogoStyles()")
	}
}
