package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// VisionConfig points the screenshot-comparison tool at a chat endpoint.
// The API key is read from the named environment variable, never stored.
type VisionConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// Config is the top-level configuration.
type Config struct {
	ADBPath        string       `yaml:"adb_path,omitempty"`
	XcrunPath      string       `yaml:"xcrun_path,omitempty"`
	IDBPath        string       `yaml:"idb_path,omitempty"`
	TimeoutSeconds int          `yaml:"timeout_seconds"`
	RemoteDir      string       `yaml:"remote_dir"`
	Vision         VisionConfig `yaml:"vision,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TimeoutSeconds: 120,
		RemoteDir:      "/sdcard",
		Vision: VisionConfig{
			Endpoint:  "https://api.openai.com/v1/chat/completions",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}

// Timeout returns the default command timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConfigDir returns the config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mobilectl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mobilectl")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
