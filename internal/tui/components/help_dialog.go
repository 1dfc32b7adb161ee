// Package components provides reusable TUI components.
package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/ixv/internal/core/styles"
)

// HelpEntry represents a single keyboard shortcut entry.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpSection groups related help entries under a title.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpDialog displays all available keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpSection
}

func NewHelpDialog(title string, sections []HelpSection) *HelpDialog {
	return &HelpDialog{title: title, sections: sections}
}

// View renders the dialog box.
func (h *HelpDialog) View() string {
	var lines []string
	for i, section := range h.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		if section.Title != "" {
			lines = append(lines, styles.HelpSectionStyle.Render(section.Title))
		}
		for _, entry := range section.Entries {
			lines = append(lines, formatKeyDesc(entry.Key, entry.Desc))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(h.title),
		"",
		strings.Join(lines, "\n"),
		styles.ModalHelpStyle.Render("esc/? close"),
	)
	return styles.ModalStyle.Render(content)
}

// Overlay renders the dialog centered over background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	return Center(background, h.View(), width, height)
}

// Center composites box over the middle of background.
func Center(background, box string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	boxLayer := lipgloss.NewLayer(box)

	x := max((width-lipgloss.Width(box))/2, 0)
	y := max((height-lipgloss.Height(box))/2, 0)
	boxLayer.X(x).Y(y).Z(1)

	return lipgloss.NewCompositor(bgLayer, boxLayer).Render()
}

// formatKeyDesc aligns a key and its description on display width.
func formatKeyDesc(key, desc string) string {
	const keyWidth = 12

	pad := max(keyWidth-lipgloss.Width(key), 1)
	return styles.HelpKeyStyle.Render(key+strings.Repeat(" ", pad)) + styles.CardValueStyle.Render(desc)
}
