package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trolleydev/trolley/internal/shop"
)

const lowStockThreshold = 5

// handleProductsKey processes keyboard input for the catalog view.
func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.catalogSnap.Products
	count := len(products)

	switch msg.String() {
	case "j", "down":
		if m.productRow < count-1 {
			m.productRow++
		}
	case "k", "up":
		if m.productRow > 0 {
			m.productRow--
		}
	case "g", "home":
		m.productRow = 0
	case "G", "end":
		m.productRow = max(0, count-1)

	case "a", "enter":
		if m.productRow >= 0 && m.productRow < count {
			return m, m.addCmd(products[m.productRow].ID)
		}
	}

	return m, nil
}

// addCmd adds one unit of the product in the background. The engine handles
// auth checks, stock checks, dedup of rapid presses and the user notice.
func (m Model) addCmd(productID int64) tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		_ = engine.Add(ctx, productID, 1)
		return actionDoneMsg{}
	}
}

// renderProducts renders the catalog view.
func (m Model) renderProducts() string {
	styles := m.theme.Styles()

	products := m.catalogSnap.Products
	if len(products) == 0 {
		label := "Loading products..."
		if m.catalogSnap.IsOffline() {
			label = "Storefront unreachable; retrying"
		}
		return m.renderTitledBox("Products", styles.MutedText.Render(label), true)
	}

	var b strings.Builder
	for i, p := range products {
		badge := styles.StatusStyle(stockKey(p)).Render(stockLabel(p))
		name := truncate(p.Name, 36)
		category := truncate(p.Category, 14)

		row := fmt.Sprintf("%-38s %-16s %10s  ", name, category, formatPrice(p.Price))
		if i == m.productRow {
			b.WriteString(styles.Selected.Render("▸ " + row))
		} else {
			b.WriteString(styles.Text.Render("  " + row))
		}
		b.WriteString(badge)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(
		fmt.Sprintf("%d products  updated %s", len(products), m.catalogAge())))

	return m.renderTitledBox("Products", b.String(), true)
}

func (m Model) catalogAge() string {
	if m.catalogSnap.LastUpdated.IsZero() {
		return "never"
	}
	return m.catalogSnap.LastUpdated.Format("15:04:05")
}

func stockKey(p shop.Product) string {
	switch {
	case p.Stock <= 0:
		return "out_of_stock"
	case p.Stock <= lowStockThreshold:
		return "low_stock"
	default:
		return "in_stock"
	}
}

func stockLabel(p shop.Product) string {
	switch {
	case p.Stock <= 0:
		return "sold out"
	case p.Stock <= lowStockThreshold:
		return fmt.Sprintf("%d left", p.Stock)
	default:
		return "in stock"
	}
}
