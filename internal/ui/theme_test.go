package ui

import "testing"

func TestGetTheme_FallsBackToDefault(t *testing.T) {
	theme := GetTheme("NoSuchTheme")
	if theme.Name != "Nightfox" {
		t.Fatalf("fallback theme = %q, want Nightfox", theme.Name)
	}

	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Errorf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	seen := map[string]bool{}
	current := names[0]
	for range names {
		seen[current] = true
		current = NextTheme(current)
	}
	if current != names[0] {
		t.Fatalf("cycle did not wrap: ended at %q", current)
	}
	for _, name := range names {
		if !seen[name] {
			t.Errorf("theme %q never reached in cycle", name)
		}
	}

	if got := NextTheme("NoSuchTheme"); got != names[0] {
		t.Fatalf("NextTheme on unknown = %q, want first theme", got)
	}
}

func TestThemes_DefineStockAndNoticeColors(t *testing.T) {
	keys := []string{"in_stock", "low_stock", "out_of_stock", "info", "success", "warning", "error"}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, key := range keys {
			if theme.StatusColors[key] == "" {
				t.Errorf("theme %q missing status color %q", name, key)
			}
		}
	}
}
