package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/ixv/internal/core/styles"
)

const (
	defaultToastTTL   = 4 * time.Second
	defaultMaxToasts  = 3
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 44
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastWarning
	ToastError
)

type toast struct {
	level     ToastLevel
	message   string
	remaining time.Duration
}

// ToastController manages the lifecycle of the short-lived notices shown in
// the corner of the inspector.
type ToastController struct {
	toasts  []toast
	ticking bool
}

// Push adds a notice, evicting the oldest past defaultMaxToasts.
func (c *ToastController) Push(level ToastLevel, message string) {
	c.toasts = append(c.toasts, toast{level: level, message: message, remaining: defaultToastTTL})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Tick decrements the remaining TTL on all toasts by d and removes
// any that have expired.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

func (c *ToastController) DismissAll() { c.toasts = c.toasts[:0] }

func (c *ToastController) HasToasts() bool { return len(c.toasts) > 0 }

// Start reports whether a tick loop must be scheduled and marks it running.
func (c *ToastController) Start() bool {
	if c.ticking {
		return false
	}
	c.ticking = true
	return true
}

func (c *ToastController) Stop() { c.ticking = false }

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// Overlay composites the toast stack over background in the lower-right corner.
func (c *ToastController) Overlay(background string, width, height int) string {
	if len(c.toasts) == 0 {
		return background
	}

	rendered := make([]string, 0, len(c.toasts))
	for _, t := range c.toasts {
		rendered = append(rendered, renderToast(t))
	}
	content := strings.Join(rendered, "\n")

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(content)
	toastLayer.
		X(max(width-lipgloss.Width(content)-1, 0)).
		Y(max(height-lipgloss.Height(content)-1, 0)).
		Z(2)

	return lipgloss.NewCompositor(bgLayer, toastLayer).Render()
}

func renderToast(t toast) string {
	icon, style := styles.IconInfo, styles.ToastInfoStyle
	switch t.level {
	case ToastWarning:
		icon, style = styles.IconWarning, styles.ToastWarningStyle
	case ToastError:
		icon, style = styles.IconError, styles.ToastErrorStyle
	}
	return style.Width(toastWidth).Render(icon + " " + t.message)
}
