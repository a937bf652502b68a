// Package config handles global Locus configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global Locus configuration.
type Config struct {
	// DefaultWorkspace is the name of the default workspace (from Workspaces map).
	DefaultWorkspace string `toml:"default_workspace"`

	// Workspaces is a map of workspace names to paths.
	Workspaces map[string]string `toml:"workspaces"`
}

// GetWorkspacePath returns the path for a named workspace.
// If name is empty, returns the default workspace path.
func (c *Config) GetWorkspacePath(name string) (string, error) {
	if name == "" {
		name = c.DefaultWorkspace
	}
	if name == "" {
		return "", fmt.Errorf("no default workspace configured")
	}
	if path, ok := c.Workspaces[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("workspace '%s' not found in config", name)
}

// GetDefaultWorkspacePath returns the default workspace path.
func (c *Config) GetDefaultWorkspacePath() (string, error) {
	return c.GetWorkspacePath("")
}

// ListWorkspaces returns all configured workspaces with their paths.
func (c *Config) ListWorkspaces() map[string]string {
	result := make(map[string]string)
	for name, path := range c.Workspaces {
		result[name] = path
	}
	return result
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/locus/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	// Prefer XDG-style ~/.config/locus/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "locus", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	// Fall back to XDG config dir or OS-specific location
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "locus", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/locus/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "locus", "config.toml"), nil
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault() (string, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# Locus Configuration

# Default workspace name (must exist in [workspaces] below)
# default_workspace = "lab"

# Named workspaces
# [workspaces]
# lab = "/path/to/your/datasets"
# scratch = "/path/to/scratch/datasets"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
