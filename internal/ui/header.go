package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: connection state, account, cart
// totals and sync activity.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var parts []string

	parts = append(parts, bg.Render("trolley", styles.Logo))

	// Connection indicator
	switch {
	case m.catalogSnap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
		parts = append(parts, bg.Render("Reconnecting...", styles.WarningText))
	case m.catalogSnap.LastError != nil:
		parts = append(parts, bg.Render("● DEGRADED", styles.WarningText))
	case m.catalogSnap.HasProducts:
		parts = append(parts, bg.Render("● ON", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText))
	}

	// Account
	if m.session != nil && m.session.Authenticated() {
		parts = append(parts,
			bg.Render("user:", styles.MutedText)+bg.Space()+
				bg.Render(m.session.Username(), styles.Text))
	} else {
		parts = append(parts, bg.Render("signed out", styles.MutedText))
	}

	// Cart totals
	parts = append(parts,
		bg.Render("Cart:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d items", m.cartSnap.TotalItems), styles.Text))
	if m.cartSnap.Total != "" {
		parts = append(parts, bg.Render(formatPrice(m.cartSnap.Total), styles.AccentText))
	}

	// Sync activity
	switch {
	case m.engine != nil && m.engine.Syncing():
		parts = append(parts, bg.Render("Syncing...", styles.InfoText))
	case len(m.cartSnap.Pending) > 0:
		parts = append(parts,
			bg.Render(fmt.Sprintf("%d unsaved", len(m.cartSnap.Pending)), styles.WarningText))
	}

	// Latest notice rides in the header so the active view never hides it
	if len(m.recent) > 0 {
		n := m.recent[0]
		parts = append(parts, bg.Render(truncate(n.Message, 60), m.noticeStyle(n.Level, styles)))
	}

	content := bg.Join(parts, sep)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// renderCommandBar renders the second header line listing key bindings.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.SurfaceAlt)
	sep := bg.Spaces(2)

	bindings := []struct{ key, label string }{
		{"p", "products"},
		{"b", "basket"},
		{"n", "activity"},
		{"a", "add"},
		{"+/-", "qty"},
		{"x", "remove"},
		{"c", "checkout"},
		{"s", "sign in"},
		{"h", "help"},
	}

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts,
			bg.Render("<"+kb.key+">", styles.AccentText)+bg.Space()+
				bg.Render(kb.label, styles.MutedText))
	}

	return styles.Footer.Width(m.width).Render(bg.Join(parts, sep))
}
