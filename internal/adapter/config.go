package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultServerURL is the API base used when nothing is configured
const DefaultServerURL = "http://localhost:8080/api"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Browser BrowserConfig `mapstructure:"browser"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds news API configuration
type ServerConfig struct {
	URL     string        `mapstructure:"url"`     // API base including the /api prefix
	Timeout time.Duration `mapstructure:"timeout"` // 0 = transport default
}

// StorageConfig holds local persistence configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // Directory for the session database; empty = memory only
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme    string `mapstructure:"theme"`
	PageSize int    `mapstructure:"page_size"` // CLI listings only
}

// BrowserConfig holds the command used to open article links
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // Empty = system default handler
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: DefaultServerURL,
		},
		Storage: StorageConfig{
			Path: defaultDataPath(),
		},
		UI: UIConfig{
			Theme:    "default",
			PageSize: 10,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "newsdesk.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "newsdesk")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "newsdesk")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "newsdesk")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "newsdesk")
	}
}

// LoadConfig loads configuration from the default locations and the environment
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile loads configuration from an explicit file, or from the
// default locations when path is empty. NEWSDESK_* variables override both.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Server.URL = strings.TrimRight(cfg.Server.URL, "/")
	if cfg.UI.PageSize <= 0 {
		cfg.UI.PageSize = 10
	}
	return cfg, nil
}

// newViper builds a viper instance seeded with defaults so env overrides
// apply to every known key
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.timeout", cfg.Server.Timeout)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.page_size", cfg.UI.PageSize)
	v.SetDefault("browser.command", cfg.Browser.Command)
	v.SetDefault("browser.args", cfg.Browser.Args)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)

	// Environment variable overrides, e.g. NEWSDESK_SERVER_URL
	v.SetEnvPrefix("NEWSDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SaveConfig saves the configuration to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveConfigFile(cfg, filepath.Join(configPath, "config.yaml"))
}

// SaveConfigFile writes the configuration as YAML to path
func SaveConfigFile(cfg *Config, path string) error {
	v := viper.New()

	// Set fields individually to keep snake_case key names
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.timeout", cfg.Server.Timeout.String())
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.page_size", cfg.UI.PageSize)
	if cfg.Browser.Command != "" {
		v.Set("browser.command", cfg.Browser.Command)
		v.Set("browser.args", cfg.Browser.Args)
	}
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
