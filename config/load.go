package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// searchPaths are tried in order when no config path is given.
var searchPaths = []string{"lox.yaml", "lox.yml", "lox.toml"}

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults() when nothing is found.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved
// path. The path is empty when defaults were used.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Defaults(), "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := decode(path, data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.BaseDir = filepath.Dir(absPath)
	if cfg.History != "" && !filepath.IsAbs(cfg.History) && !strings.HasPrefix(cfg.History, "~") {
		cfg.History = filepath.Join(cfg.BaseDir, cfg.History)
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// decode picks the format by file extension. Anything that is not .toml is
// read as YAML.
func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > LOX_CONFIG env > ./lox.yaml > ./lox.yml >
// ./lox.toml > ~/.config/lox/lox.yaml. An empty result means none exists.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("LOX_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("LOX_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "lox", "lox.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("configuration errors")

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	var errs []string

	validOutputs := map[string]bool{"text": true, "json": true, "yaml": true}
	if !validOutputs[cfg.Output] {
		errs = append(errs, fmt.Sprintf("invalid output: %s (must be text, json, or yaml)", cfg.Output))
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[cfg.Color] {
		errs = append(errs, fmt.Sprintf("invalid color: %s (must be auto, always, or never)", cfg.Color))
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("invalid watch.debounce: %s (must not be negative)", cfg.Watch.Debounce))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalid, strings.Join(errs, "\n  - "))
	}

	return nil
}

// HistoryPath returns the REPL history file, expanding a leading ~.
func (c *Config) HistoryPath() string {
	path := c.History
	home, err := os.UserHomeDir()
	if path == "" {
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".lox_history")
	}
	if strings.HasPrefix(path, "~/") && err == nil {
		return filepath.Join(home, path[2:])
	}
	return path
}
