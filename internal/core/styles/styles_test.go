package styles

import (
	"testing"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlend(t *testing.T) {
	black := lipgloss.Color("#000000")
	white := lipgloss.Color("#ffffff")

	got, ok := colorful.MakeColor(Blend(black, white, 0))
	require.True(t, ok)
	assert.Equal(t, "#000000", got.Hex())

	got, ok = colorful.MakeColor(Blend(black, white, 1))
	require.True(t, ok)
	assert.Equal(t, "#ffffff", got.Hex())

	assert.Nil(t, Blend(nil, white, 0.5))
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(resetTheme)

	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			p, ok := GetPalette(name)
			require.True(t, ok)

			SetTheme(p)
			assert.Equal(t, p.Primary, ColorPrimary)
			assert.NotNil(t, HighlightPrimary)
			assert.NotNil(t, HighlightSigned)
			assert.NotEqual(t, HighlightLinked, HighlightRelated)
		})
	}
}

func TestGetPalette_Unknown(t *testing.T) {
	_, ok := GetPalette("nope")
	assert.False(t, ok)
}

func TestGetPalette_DerivedColors(t *testing.T) {
	p, ok := GetPalette("onedark")
	require.True(t, ok)
	assert.NotNil(t, p.Muted)
	assert.NotNil(t, p.Surface)
	assert.Nil(t, p.Accent)

	SetTheme(p)
	t.Cleanup(resetTheme)
	assert.Equal(t, p.Secondary, ColorAccent)
}

func TestIsLight(t *testing.T) {
	assert.True(t, IsLight(lipgloss.Color("#ffffff")))
	assert.False(t, IsLight(lipgloss.Color("#1a1b26")))
}

func TestGlamourStyle(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#c0caf5", *cfg.Document.Color)
	require.NotNil(t, cfg.Document.Margin)
	assert.Zero(t, *cfg.Document.Margin)
}

func TestGlamourStyle_Light(t *testing.T) {
	p, ok := GetPalette("paper")
	require.True(t, ok)
	SetTheme(p)
	t.Cleanup(resetTheme)

	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#24292f", *cfg.Document.Color)
}

func resetTheme() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}
