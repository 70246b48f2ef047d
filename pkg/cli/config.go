package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfig represents ~/.duckgs/config.yaml, holding per-user defaults.
type UserConfig struct {
	Bucket   string `yaml:"bucket,omitempty"`
	CacheDir string `yaml:"cache-dir,omitempty"`
	Output   string `yaml:"output,omitempty"`
	Strict   bool   `yaml:"strict,omitempty"`
}

// ConfigDir returns the path to ~/.duckgs/.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".duckgs")
}

// ConfigPath returns the path to ~/.duckgs/config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadUserConfig reads ~/.duckgs/config.yaml.
func LoadUserConfig() (*UserConfig, error) {
	return loadUserConfigFrom(ConfigPath())
}

func loadUserConfigFrom(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
