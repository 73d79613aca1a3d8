package ui

import (
	"testing"

	"github.com/trolleydev/trolley/internal/shop"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer string than fits", 10, "a longer …"},
		{"  padded  ", 20, "padded"},
		{"", 5, ""},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice("12.50"); got != "$12.50" {
		t.Errorf("formatPrice = %q, want $12.50", got)
	}
	if got := formatPrice("  "); got != "" {
		t.Errorf("formatPrice on blank = %q, want empty", got)
	}
}

func TestStockBadges(t *testing.T) {
	tests := []struct {
		stock     int
		wantKey   string
		wantLabel string
	}{
		{0, "out_of_stock", "sold out"},
		{-1, "out_of_stock", "sold out"},
		{3, "low_stock", "3 left"},
		{5, "low_stock", "5 left"},
		{6, "in_stock", "in stock"},
		{100, "in_stock", "in stock"},
	}
	for _, tt := range tests {
		p := shop.Product{Stock: tt.stock}
		if got := stockKey(p); got != tt.wantKey {
			t.Errorf("stockKey(stock=%d) = %q, want %q", tt.stock, got, tt.wantKey)
		}
		if got := stockLabel(p); got != tt.wantLabel {
			t.Errorf("stockLabel(stock=%d) = %q, want %q", tt.stock, got, tt.wantLabel)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "item", "items"); got != "item" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(2, "item", "items"); got != "items" {
		t.Errorf("plural(2) = %q", got)
	}
}
