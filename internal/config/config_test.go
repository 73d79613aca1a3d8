package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want default", cfg.APIBase)
	}
	if cfg.PollInterval != defaultPollSeconds*time.Second {
		t.Fatalf("PollInterval = %v, want %ds", cfg.PollInterval, defaultPollSeconds)
	}
	if cfg.Debounce != defaultDebounceMS*time.Millisecond {
		t.Fatalf("Debounce = %v, want %dms", cfg.Debounce, defaultDebounceMS)
	}
	if cfg.DataDir == "" || strings.HasPrefix(cfg.DataDir, "~") {
		t.Fatalf("DataDir = %q, want expanded default", cfg.DataDir)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
api_base = "https://shop.example.com"
data_dir = "` + dir + `"
poll_seconds = 10
debounce_ms = 150
request_timeout_seconds = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "https://shop.example.com" {
		t.Fatalf("APIBase = %q", cfg.APIBase)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.Debounce != 150*time.Millisecond {
		t.Fatalf("Debounce = %v, want 150ms", cfg.Debounce)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.BackupPath() != filepath.Join(dir, "backup.db") {
		t.Fatalf("BackupPath = %q", cfg.BackupPath())
	}
	if cfg.LogPath() != filepath.Join(dir, "trolley.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api_base = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config should return an error")
	}
}
