// Package config handles loading and parsing the trolley configuration file.
//
// # Overview
//
// This package reads trolley's TOML configuration to discover the storefront
// API endpoint and the local data directory that holds the cart backup
// database and the log file. Every field is optional; a missing config file
// is not an error.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/trolley/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/trolley/config.toml
//   - API base: http://127.0.0.1:8000
//   - Data directory: ~/.local/share/trolley
//   - Catalog poll interval: 30 seconds
//   - Sync debounce: 300 milliseconds
//   - Request timeout: 10 seconds
//
// # TOML Format
//
// Example config.toml:
//
//	api_base = "https://shop.example.com"
//	data_dir = "~/.local/share/trolley"
//	poll_seconds = 30
//	debounce_ms = 300
//	request_timeout_seconds = 10
//
// Tilde expansion is performed on data_dir automatically. The derived paths
// (backup database, log file) live inside data_dir and are exposed through
// BackupPath and LogPath.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (except
// os.ErrNotExist, which triggers defaults) and TOML parsing errors. The
// package is read-only and stateless: configuration is loaded once at
// startup and returned as a value.
package config
