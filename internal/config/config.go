package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields trolley needs to reach the storefront API and
// lay out its local data.
type Config struct {
	APIBase        string
	DataDir        string
	PollInterval   time.Duration
	Debounce       time.Duration
	RequestTimeout time.Duration
}

const (
	defaultConfigPath  = "~/.config/trolley/config.toml"
	defaultDataDir     = "~/.local/share/trolley"
	defaultAPIBase     = "http://127.0.0.1:8000"
	defaultPollSeconds = 30
	defaultDebounceMS  = 300
	defaultTimeoutSecs = 10
)

// Load locates and parses the config file, falling back to defaults when it
// is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.DataDir = mustExpand(defaultDataDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var parsed struct {
		APIBase        string `toml:"api_base"`
		DataDir        string `toml:"data_dir"`
		PollSeconds    int    `toml:"poll_seconds"`
		DebounceMS     int    `toml:"debounce_ms"`
		TimeoutSeconds int    `toml:"request_timeout_seconds"`
	}
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(parsed.APIBase); base != "" {
		cfg.APIBase = base
	}
	dataDir := strings.TrimSpace(parsed.DataDir)
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	cfg.DataDir = mustExpand(dataDir)
	if parsed.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(parsed.PollSeconds) * time.Second
	}
	if parsed.DebounceMS > 0 {
		cfg.Debounce = time.Duration(parsed.DebounceMS) * time.Millisecond
	}
	if parsed.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(parsed.TimeoutSeconds) * time.Second
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		APIBase:        defaultAPIBase,
		DataDir:        defaultDataDir,
		PollInterval:   defaultPollSeconds * time.Second,
		Debounce:       defaultDebounceMS * time.Millisecond,
		RequestTimeout: defaultTimeoutSecs * time.Second,
	}
}

// BackupPath returns the path of the local cart backup database.
func (c Config) BackupPath() string {
	return filepath.Join(c.dataDir(), "backup.db")
}

// LogPath returns the path of the client's log file. The TUI owns the
// terminal, so logs never go to stdout.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "trolley.log")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
