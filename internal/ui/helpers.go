package ui

import (
	"strings"
)

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// formatPrice renders a decimal price string with a currency prefix. Prices
// travel as strings end to end; the client never does money arithmetic.
func formatPrice(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return "$" + value
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
