// Package config provides configuration management for ironlog.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the ironlog application.
type Config struct {
	Owner         string             `mapstructure:"owner"`
	Units         string             `mapstructure:"units"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// ThemeConfig holds theme customization settings.
type ThemeConfig struct {
	ColorAccent   string `mapstructure:"color_accent"`
	ColorDone     string `mapstructure:"color_done"`
	ColorRest     string `mapstructure:"color_rest"`
	ColorTitle    string `mapstructure:"color_title"`
	ColorHelp     string `mapstructure:"color_help"`
	GradientStart string `mapstructure:"gradient_start"`
	GradientEnd   string `mapstructure:"gradient_end"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorAccent:   "#7C6FE0",
		ColorDone:     "#2ECC71",
		ColorRest:     "#4ECDC4",
		ColorTitle:    "#6B7280",
		ColorHelp:     "#95A5A6",
		GradientStart: "#7C6FE0",
		GradientEnd:   "#A78BFA",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Owner: "default",
		Units: "kg",
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Storage: StorageConfig{
			DataDir: "~/.ironlog",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the config file, creating it with
// defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	setDefaults()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in data directory
	if cfg.Storage.DataDir == "~/.ironlog" || cfg.Storage.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Storage.DataDir = filepath.Join(homeDir, ".ironlog")
	}

	return &cfg, nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("toml")

	viper.Set("owner", cfg.Owner)
	viper.Set("units", cfg.Units)
	viper.Set("notifications.enabled", cfg.Notifications.Enabled)
	viper.Set("notifications.sound", cfg.Notifications.Sound)
	viper.Set("storage.data_dir", cfg.Storage.DataDir)
	viper.Set("theme.color_accent", cfg.Theme.ColorAccent)
	viper.Set("theme.color_done", cfg.Theme.ColorDone)
	viper.Set("theme.color_rest", cfg.Theme.ColorRest)
	viper.Set("theme.color_title", cfg.Theme.ColorTitle)
	viper.Set("theme.color_help", cfg.Theme.ColorHelp)
	viper.Set("theme.gradient_start", cfg.Theme.GradientStart)
	viper.Set("theme.gradient_end", cfg.Theme.GradientEnd)

	return viper.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ironlog", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "ironlog.db")
}

// setDefaults sets default values for viper.
func setDefaults() {
	viper.SetDefault("owner", "default")
	viper.SetDefault("units", "kg")
	viper.SetDefault("notifications.enabled", true)
	viper.SetDefault("notifications.sound", true)
	viper.SetDefault("storage.data_dir", "~/.ironlog")

	defaults := DefaultThemeConfig()
	viper.SetDefault("theme.color_accent", defaults.ColorAccent)
	viper.SetDefault("theme.color_done", defaults.ColorDone)
	viper.SetDefault("theme.color_rest", defaults.ColorRest)
	viper.SetDefault("theme.color_title", defaults.ColorTitle)
	viper.SetDefault("theme.color_help", defaults.ColorHelp)
	viper.SetDefault("theme.gradient_start", defaults.GradientStart)
	viper.SetDefault("theme.gradient_end", defaults.GradientEnd)
}
