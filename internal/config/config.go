package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// MaxLiveTVTabs caps the number of configurable Live TV tabs.
const MaxLiveTVTabs = 5

// TabMode selects how a Live TV tab resolves its channel list
type TabMode string

const (
	TabModeDynamic TabMode = "dynamic" // all channels
	TabModeStatic  TabMode = "static"  // explicit allow-list
)

// LiveTVTab is one configured Live TV tab definition
type LiveTVTab struct {
	ID         string   `mapstructure:"id"`
	Name       string   `mapstructure:"name"`
	Mode       TabMode  `mapstructure:"mode"`
	ChannelIDs []string `mapstructure:"channel_ids"` // static mode only
}

// Config holds all application configuration
type Config struct {
	Catalog  ServerConfig   `mapstructure:"catalog"`
	Requests ServerConfig   `mapstructure:"requests"`
	Device   DeviceConfig   `mapstructure:"device"`
	Features FeaturesConfig `mapstructure:"features"`
	LiveTV   []LiveTVTab    `mapstructure:"livetv"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds one backend endpoint and its credential
type ServerConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// DeviceConfig holds the playback device binding
type DeviceConfig struct {
	// Target matches a session's device id exactly, or its device
	// name as a substring when the stable id is unknown.
	Target string `mapstructure:"target"`
}

// FeaturesConfig holds feature toggles
type FeaturesConfig struct {
	RequestsEnabled bool `mapstructure:"requests_enabled"`
	LiveTVEnabled   bool `mapstructure:"livetv_enabled"`
}

// UIConfig holds appearance configuration
type UIConfig struct {
	Theme  string `mapstructure:"theme"`
	Accent string `mapstructure:"accent"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Features: FeaturesConfig{
			RequestsEnabled: true,
			LiveTVEnabled:   true,
		},
		UI: UIConfig{
			Theme:  "black",
			Accent: "#8a2be2",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "foyer", "foyer.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "foyer", "foyer.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "foyer")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "foyer")
	}
}

// DefaultCachePath returns the default cache directory for the current OS
func DefaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "foyer", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "foyer", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("FOYER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig merges the given configuration into the persisted file.
// Unrecognized keys already present in the file survive the write.
func SaveConfig(cfg *Config) error {
	viper.Set("catalog.url", cfg.Catalog.URL)
	viper.Set("catalog.api_key", cfg.Catalog.APIKey)
	viper.Set("requests.url", cfg.Requests.URL)
	viper.Set("requests.api_key", cfg.Requests.APIKey)

	viper.Set("device.target", cfg.Device.Target)

	viper.Set("features.requests_enabled", cfg.Features.RequestsEnabled)
	viper.Set("features.livetv_enabled", cfg.Features.LiveTVEnabled)

	viper.Set("livetv", tabsForWrite(cfg.LiveTV))

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.accent", cfg.UI.Accent)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// tabsForWrite converts tabs to plain maps so viper serializes them
// with stable lowercase keys.
func tabsForWrite(tabs []LiveTVTab) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(tabs))
	for _, t := range tabs {
		out = append(out, map[string]interface{}{
			"id":          t.ID,
			"name":        t.Name,
			"mode":        string(t.Mode),
			"channel_ids": t.ChannelIDs,
		})
	}
	return out
}

// IsConfigured returns true if the catalog endpoint and credential are set
func (c *Config) IsConfigured() bool {
	return c.Catalog.URL != "" && c.Catalog.APIKey != ""
}

// Tab returns the Live TV tab with the given id, or nil.
func (c *Config) Tab(id string) *LiveTVTab {
	for i := range c.LiveTV {
		if c.LiveTV[i].ID == id {
			return &c.LiveTV[i]
		}
	}
	return nil
}

// AddLiveTVTab appends a new tab definition, minting its identity.
// Fails once the tab cap is reached.
func (c *Config) AddLiveTVTab(name string, mode TabMode) (*LiveTVTab, error) {
	if len(c.LiveTV) >= MaxLiveTVTabs {
		return nil, fmt.Errorf("at most %d Live TV tabs are supported", MaxLiveTVTabs)
	}
	c.LiveTV = append(c.LiveTV, LiveTVTab{
		ID:   uuid.NewString(),
		Name: name,
		Mode: mode,
	})
	return &c.LiveTV[len(c.LiveTV)-1], nil
}

// RemoveLiveTVTab deletes the tab with the given id, preserving order.
func (c *Config) RemoveLiveTVTab(id string) {
	for i := range c.LiveTV {
		if c.LiveTV[i].ID == id {
			c.LiveTV = append(c.LiveTV[:i], c.LiveTV[i+1:]...)
			return
		}
	}
}
