package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trolleydev/trolley/internal/cart"
)

// handleCartKey processes keyboard input for the basket view.
func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.cartSnap.Lines
	count := len(lines)

	switch msg.String() {
	case "j", "down":
		if m.cartRow < count-1 {
			m.cartRow++
		}
	case "k", "up":
		if m.cartRow > 0 {
			m.cartRow--
		}
	case "g", "home":
		m.cartRow = 0
	case "G", "end":
		m.cartRow = max(0, count-1)

	case "+", "=":
		if line, ok := m.selectedLine(); ok {
			m.engine.UpdateQuantity(line.ProductID, line.Quantity+1)
			return m, m.refreshCmd()
		}
	case "-":
		if line, ok := m.selectedLine(); ok {
			if line.Quantity <= 1 {
				return m, nil
			}
			m.engine.UpdateQuantity(line.ProductID, line.Quantity-1)
			return m, m.refreshCmd()
		}
	case "x", "delete", "backspace":
		if line, ok := m.selectedLine(); ok {
			m.engine.Remove(line.ProductID)
			return m, m.refreshCmd()
		}
	}

	return m, nil
}

func (m Model) selectedLine() (cart.Line, bool) {
	if m.cartRow < 0 || m.cartRow >= len(m.cartSnap.Lines) {
		return cart.Line{}, false
	}
	return m.cartSnap.Lines[m.cartRow], true
}

// renderCart renders the basket view.
func (m Model) renderCart() string {
	styles := m.theme.Styles()

	if !m.session.Authenticated() {
		return m.renderTitledBox("Basket",
			styles.MutedText.Render("Sign in to manage your basket (press s)"), true)
	}

	lines := m.cartSnap.Lines
	if len(lines) == 0 {
		return m.renderTitledBox("Basket",
			styles.MutedText.Render("Your basket is empty; browse products with p"), true)
	}

	var b strings.Builder
	for i, line := range lines {
		qty := fmt.Sprintf("×%d", line.Quantity)
		if _, pending := m.cartSnap.Pending[line.ProductID]; pending {
			qty += " *"
		}

		name := truncate(line.Name, 40)
		row := fmt.Sprintf("%-42s %-8s %10s", name, qty, formatPrice(line.UnitPrice))

		if i == m.cartRow {
			b.WriteString(styles.Selected.Render("▸ " + row))
		} else {
			b.WriteString(styles.Text.Render("  " + row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	summary := fmt.Sprintf("%d %s", m.cartSnap.TotalItems,
		plural(m.cartSnap.TotalItems, "item", "items"))
	if m.cartSnap.Total != "" {
		summary += "  total " + formatPrice(m.cartSnap.Total)
	}
	b.WriteString(styles.AccentText.Render(summary))
	if len(m.cartSnap.Pending) > 0 {
		b.WriteString(styles.WarningText.Render("   * not yet saved"))
	}

	return m.renderTitledBox("Basket", b.String(), true)
}
