package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// themeVariantSystem means "follow the operating system". Fyne has no named
// constant for it, so the app theme keeps the variant it was handed by Fyne.
const themeVariantSystem fyne.ThemeVariant = 99

// PlannerTheme wraps the default Fyne theme with compact sizing for the
// planner window and an optional fixed light or dark variant.
type PlannerTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewPlannerTheme creates a theme for the configured name: "light", "dark"
// or anything else for the system default.
func NewPlannerTheme(name string) *PlannerTheme {
	return &PlannerTheme{
		base:    theme.DefaultTheme(),
		variant: ThemeVariantFromName(name),
	}
}

// ThemeVariantFromName maps a config theme name to a Fyne variant.
func ThemeVariantFromName(name string) fyne.ThemeVariant {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return theme.VariantLight
	case "dark":
		return theme.VariantDark
	default:
		return themeVariantSystem
	}
}

// SetVariant updates the theme variant.
func (t *PlannerTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

func (t *PlannerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.variant != themeVariantSystem {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *PlannerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *PlannerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size shrinks text and padding so the canvas gets most of the window.
func (t *PlannerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
