package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultRemoteURL is used when no remote URL is configured.
const DefaultRemoteURL = "http://localhost:3000"

// Config represents the sipp configuration
type Config struct {
	RemoteURL  string `yaml:"remote_url,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
	Style      string `yaml:"style,omitempty"`
	DBLocation string `yaml:"db_location,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{}
}

// RemoteURLOrDefault returns the configured remote URL or DefaultRemoteURL.
func (c *Config) RemoteURLOrDefault() string {
	if c.RemoteURL == "" {
		return DefaultRemoteURL
	}
	return c.RemoteURL
}

// ConfigManager manages configuration persistence
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a configuration manager for ~/.config/sipp/config.yaml
func NewConfigManager() (*ConfigManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "sipp")
	configPath := filepath.Join(configDir, "config.yaml")

	return &ConfigManager{
		configPath: configPath,
	}, nil
}

// NewConfigManagerWithPath creates a config manager with custom config path
func NewConfigManagerWithPath(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// Load reads the configuration from file, or returns default if file doesn't exist
func (cm *ConfigManager) Load() (*Config, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cm.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to file. The file holds the API key, so it
// is only readable by the owner.
func (cm *ConfigManager) Save(config *Config) error {
	if err := cm.validate(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(cm.configPath, 0o600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

func (cm *ConfigManager) validate(config *Config) error {
	config.RemoteURL = strings.TrimRight(strings.TrimSpace(config.RemoteURL), "/")
	if config.RemoteURL == "" {
		return nil
	}

	u, err := url.Parse(config.RemoteURL)
	if err != nil {
		return fmt.Errorf("remote_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote_url must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("remote_url must include a host")
	}
	return nil
}

// GetConfigPath returns the path to the config file
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// Update modifies a specific configuration value
func (cm *ConfigManager) Update(key, value string) error {
	config, err := cm.Load()
	if err != nil {
		return err
	}

	switch key {
	case "remote-url":
		config.RemoteURL = value
	case "api-key":
		config.APIKey = value
	case "style":
		config.Style = value
	case "db-location":
		config.DBLocation = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return cm.Save(config)
}

// Get returns the value for a specific configuration key
func (cm *ConfigManager) Get(key string) (string, error) {
	config, err := cm.Load()
	if err != nil {
		return "", err
	}

	switch key {
	case "remote-url":
		return config.RemoteURLOrDefault(), nil
	case "api-key":
		return config.APIKey, nil
	case "style":
		if config.Style == "" {
			return "[default]", nil
		}
		return config.Style, nil
	case "db-location":
		if config.DBLocation == "" {
			return "[default]", nil
		}
		return config.DBLocation, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// List returns all configuration keys and values. The API key is masked.
func (cm *ConfigManager) List() (map[string]string, error) {
	config, err := cm.Load()
	if err != nil {
		return nil, err
	}

	result := map[string]string{
		"remote-url":  config.RemoteURLOrDefault(),
		"api-key":     MaskKey(config.APIKey),
		"style":       config.Style,
		"db-location": config.DBLocation,
	}
	for _, k := range []string{"style", "db-location"} {
		if result[k] == "" {
			result[k] = "[default]"
		}
	}

	return result, nil
}

// MaskKey hides all but the last four characters of key.
func MaskKey(key string) string {
	switch {
	case key == "":
		return "[not set]"
	case len(key) <= 4:
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
