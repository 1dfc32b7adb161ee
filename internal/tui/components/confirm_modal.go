package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/ixv/internal/core/styles"
)

// ConfirmModal is a simple yes/no confirmation dialog.
type ConfirmModal struct {
	title     string
	message   string
	confirmed bool
	cancelled bool
}

func NewConfirmModal(title, message string) ConfirmModal {
	return ConfirmModal{title: title, message: message}
}

// Update handles input for the confirmation modal.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.confirmed = true
	case "n", "N", "esc":
		m.cancelled = true
	}
	return m, nil
}

// View renders the modal box.
func (m ConfirmModal) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		styles.CardValueStyle.Render(m.message),
		styles.ModalHelpStyle.Render("y/enter confirm  n/esc cancel"),
	)
	return styles.ModalStyle.Render(content)
}

// Overlay renders the modal centered over background.
func (m ConfirmModal) Overlay(background string, width, height int) string {
	return Center(background, m.View(), width, height)
}

func (m ConfirmModal) Confirmed() bool { return m.confirmed }

func (m ConfirmModal) Cancelled() bool { return m.cancelled }

// Done reports whether the user answered either way.
func (m ConfirmModal) Done() bool { return m.confirmed || m.cancelled }
