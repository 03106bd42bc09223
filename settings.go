// settings.go
package quarry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are user-level defaults loaded from the quarry config file.
// Command-line flags override them.
type Settings struct {
	Prefix   string `yaml:"prefix"`
	CacheDir string `yaml:"cache_dir"`
	Jobs     int    `yaml:"jobs"`
	Debug    bool   `yaml:"debug"`
}

// DefaultSettings returns the zero-configuration defaults.
func DefaultSettings() *Settings {
	return &Settings{}
}

// LoadSettings reads the config file, defaulting to
// $HOME/.config/quarry/config.yaml. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultSettings(), nil
		}
		path = filepath.Join(home, ".config", "quarry", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &s, nil
}
