// Package styles provides shared lipgloss v2 styles for the CLI and the
// inspector TUI.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
	ColorAccent     color.Color
)

// Highlight backgrounds, blended from the palette toward the background so
// that tag colors stay readable on every theme.
var (
	HighlightPrimary color.Color
	HighlightLinked  color.Color
	HighlightRelated color.Color
	HighlightSigned  color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	// Layout.
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style
	StatusBarStyle   lipgloss.Style
	HelpStyle        lipgloss.Style

	// Document tags.
	TagStyle        lipgloss.Style
	TagPrimaryStyle lipgloss.Style
	TagLinkedStyle  lipgloss.Style
	TagRelatedStyle lipgloss.Style
	TagSignedStyle  lipgloss.Style

	// Inspector cards.
	CardTitleStyle    lipgloss.Style
	CardLabelStyle    lipgloss.Style
	CardValueStyle    lipgloss.Style
	CardCurrentStyle  lipgloss.Style
	HiddenMarkerStyle lipgloss.Style
	LinkStyle         lipgloss.Style
	LinkHoverStyle    lipgloss.Style
	EmptyStateStyle   lipgloss.Style

	// Validation severities.
	SeverityOKStyle    lipgloss.Style
	SeverityWarnStyle  lipgloss.Style
	SeverityErrorStyle lipgloss.Style

	// Change panel.
	IncreaseStyle lipgloss.Style
	DecreaseStyle lipgloss.Style

	// Search results.
	ResultStyle         lipgloss.Style
	ResultSelectedStyle lipgloss.Style
	ResultCheckedStyle  lipgloss.Style
	SearchPromptStyle   lipgloss.Style

	// Overlays.
	ModalStyle        lipgloss.Style
	ModalTitleStyle   lipgloss.Style
	ModalHelpStyle    lipgloss.Style
	HelpSectionStyle  lipgloss.Style
	HelpKeyStyle      lipgloss.Style
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
)

// Blend mixes a toward b by t (0..1) in Lab space. Colors that cannot be
// converted return a unchanged.
func Blend(a, b color.Color, t float64) color.Color {
	if a == nil || b == nil {
		return a
	}
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return a
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorAccent = p.Accent
	if ColorAccent == nil {
		ColorAccent = p.Secondary
	}

	HighlightPrimary = Blend(p.Primary, p.Background, 0.35)
	HighlightLinked = Blend(p.Warning, p.Background, 0.55)
	HighlightRelated = Blend(p.Secondary, p.Background, 0.7)
	HighlightSigned = Blend(ColorAccent, p.Background, 0.6)

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	PaneFocusedStyle = PaneStyle.
		BorderForeground(ColorPrimary)
	PaneTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TagStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Underline(true)
	TagPrimaryStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(HighlightPrimary).
		Bold(true)
	TagLinkedStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(HighlightLinked)
	TagRelatedStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(HighlightRelated)
	TagSignedStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(HighlightSigned)

	CardTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CardLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CardValueStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	CardCurrentStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)
	HiddenMarkerStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Italic(true)
	LinkStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	LinkHoverStyle = LinkStyle.
		Background(HighlightLinked)
	EmptyStateStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	SeverityOKStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	SeverityWarnStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	SeverityErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	IncreaseStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	DecreaseStyle = lipgloss.NewStyle().Foreground(ColorError)

	ResultStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	ResultSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ResultCheckedStyle = lipgloss.NewStyle().
		Foreground(ColorAccent)
	SearchPromptStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	HelpSectionStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastInfoStyle = toast.BorderForeground(ColorPrimary)
	ToastWarningStyle = toast.BorderForeground(ColorWarning)
	ToastErrorStyle = toast.BorderForeground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}
