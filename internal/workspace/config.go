package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/datalocus/locus/internal/atomicfile"
)

// ConfigFileName is the optional workspace-level configuration file.
const ConfigFileName = "locus.yaml"

// Config is the workspace-level configuration from locus.yaml.
type Config struct {
	// Description is a free-form note about the workspace.
	Description string `yaml:"description,omitempty"`

	// DefaultDataset is the dataset URI commands substitute for "." in
	// place of an explicit dataset argument.
	DefaultDataset string `yaml:"default_dataset,omitempty"`
}

// LoadConfig reads the workspace configuration. A missing file yields the
// zero config.
func (w *Workspace) LoadConfig() (*Config, error) {
	payload, err := os.ReadFile(filepath.Join(w.root, ConfigFileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return nil, fmt.Errorf("invalid workspace config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes the workspace configuration.
func (w *Workspace) SaveConfig(cfg *Config) error {
	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode workspace config: %w", err)
	}
	path := filepath.Join(w.root, ConfigFileName)
	if err := atomicfile.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write workspace config: %w", err)
	}
	return nil
}
