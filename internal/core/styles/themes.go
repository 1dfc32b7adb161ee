package styles

import (
	"image/color"
	"sort"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the set of semantic colors every style is built from.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
	Accent     color.Color // signed tags
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themeSpec is a palette written as hex strings. Muted, Surface and Accent
// may be left empty and are derived from the other colors.
type themeSpec struct {
	primary, secondary string
	fg, bg             string
	muted, surface     string
	success, warning   string
	err, accent        string
}

var themeSpecs = map[string]themeSpec{
	"tokyo-night": {
		primary: "#7aa2f7", secondary: "#7dcfff",
		fg: "#c0caf5", bg: "#1a1b26",
		muted: "#565f89", surface: "#3b4261",
		success: "#9ece6a", warning: "#e0af68",
		err: "#f7768e", accent: "#bb9af7",
	},
	"gruvbox": {
		primary: "#83a598", secondary: "#8ec07c",
		fg: "#ebdbb2", bg: "#282828",
		muted: "#665c54", surface: "#3c3836",
		success: "#b8bb26", warning: "#fabd2f",
		err: "#fb4934", accent: "#d3869b",
	},
	"catppuccin": {
		primary: "#89b4fa", secondary: "#94e2d5",
		fg: "#cdd6f4", bg: "#1e1e2e",
		muted: "#6c7086", surface: "#313244",
		success: "#a6e3a1", warning: "#f9e2af",
		err: "#f38ba8", accent: "#cba6f7",
	},
	"kanagawa": {
		primary: "#7e9cd8", secondary: "#7fb4ca",
		fg: "#dcd7ba", bg: "#1f1f28",
		muted: "#727169",
		success: "#76946a", warning: "#dca561",
		err: "#c34043", accent: "#957fb8",
	},
	"onedark": {
		primary: "#61afef", secondary: "#56b6c2",
		fg: "#abb2bf", bg: "#282c34",
		success: "#98c379", warning: "#e5c07b",
		err: "#e06c75", accent: "#c678dd",
	},
	// Light theme for reading reports on a white terminal.
	"paper": {
		primary: "#2a5bd7", secondary: "#0f7b8a",
		fg: "#24292f", bg: "#ffffff",
		success: "#1a7f37", warning: "#9a6700",
		err: "#cf222e",
	},
}

// palette resolves the spec. Unparsable hex values fall back to the
// foreground so a typo never leaves a nil color behind.
func (s themeSpec) palette() Palette {
	fg := parseHex(s.fg, colorful.Color{R: 0.8, G: 0.8, B: 0.8})
	bg := parseHex(s.bg, colorful.Color{})

	p := Palette{
		Primary:    hexColor(parseHex(s.primary, fg)),
		Secondary:  hexColor(parseHex(s.secondary, fg)),
		Foreground: hexColor(fg),
		Background: hexColor(bg),
		Success:    hexColor(parseHex(s.success, fg)),
		Warning:    hexColor(parseHex(s.warning, fg)),
		Error:      hexColor(parseHex(s.err, fg)),
	}

	p.Muted = hexColor(parseHex(s.muted, fg.BlendLab(bg, 0.55)))
	p.Surface = hexColor(parseHex(s.surface, bg.BlendLab(fg, 0.12)))
	if s.accent != "" {
		p.Accent = hexColor(parseHex(s.accent, fg))
	}
	return p
}

func parseHex(s string, fallback colorful.Color) colorful.Color {
	if s == "" {
		return fallback
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

func hexColor(c colorful.Color) color.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themeSpecs))
	for name := range themeSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	s, ok := themeSpecs[name]
	if !ok {
		return Palette{}, false
	}
	return s.palette(), true
}

// IsLight reports whether c is a light color, judged by Lab lightness.
func IsLight(c color.Color) bool {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return false
	}
	l, _, _ := cc.Lab()
	return l > 0.6
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns the style footnote text is rendered with. Footnotes
// are short prose inside a card, so the document margin is dropped and
// only inline elements are recolored.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	if IsLight(ColorBackground) {
		cfg = glamourstyles.LightStyleConfig
	}

	var margin uint
	fg := colorHexPtr(ColorForeground)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)

	cfg.Document.Color = fg
	cfg.Document.Margin = &margin
	cfg.Paragraph.Color = fg
	cfg.Heading.Color = colorHexPtr(ColorPrimary)

	cfg.Emph.Color = secondary
	cfg.Strong.Color = fg
	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.Code.Color = secondary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted
	cfg.Item.Color = fg
	cfg.Enumeration.Color = muted
	cfg.Table.Color = fg

	return cfg
}
