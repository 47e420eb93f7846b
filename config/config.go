package config

import "time"

// Config represents the complete lox configuration
type Config struct {
	BaseDir  string      `yaml:"-" toml:"-"`                // Directory containing config file, for resolving relative paths
	Output   string      `yaml:"output" toml:"output"`     // Token dump format: text, json, or yaml
	Color    string      `yaml:"color" toml:"color"`       // auto, always, or never
	Recovery bool        `yaml:"recovery" toml:"recovery"` // Keep parsing after a syntax error
	History  string      `yaml:"history" toml:"history"`   // REPL history file (empty = ~/.lox_history)
	Watch    WatchConfig `yaml:"watch" toml:"watch"`
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" toml:"debounce"` // Quiet period before re-checking (default: 100ms)
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Output: "text",
		Color:  "auto",
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}
