package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds the packet stream backend configuration
type ServerConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // seconds; applies to the initial connect, not the stream
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	LogFile string `mapstructure:"log_file"`
	Persist bool   `mapstructure:"persist"`
}

// DisplayConfig holds rendering configuration
type DisplayConfig struct {
	// Animate enables the minimum-duration smoothing of tool activity.
	// Disabled for replay/non-interactive rendering.
	Animate       bool `mapstructure:"animate"`
	ShowDocuments bool `mapstructure:"show_documents"`
	Width         int  `mapstructure:"width"`
}

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Display DisplayConfig `mapstructure:"display"`

	// ConfigFile stores the path to the config file used
	ConfigFile string
}

var global *Config

// Init initializes the configuration system
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".tessera"))
		}
		viper.AddConfigPath("./.tessera")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	setDefaults()

	viper.SetEnvPrefix("TESSERA")
	viper.AutomaticEnv()
	viper.BindEnv("server.url", "TESSERA_SERVER_URL")
	viper.BindEnv("logging.level", "TESSERA_LOG_LEVEL")

	// Missing config file is fine; defaults and env carry the day
	_ = viper.ReadInConfig()

	return Load()
}

// Load populates the global config struct from viper's current state
func Load() error {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigFile = viper.ConfigFileUsed()
	global = cfg
	return nil
}

// Get returns the global config, initializing defaults if Init was never called
func Get() *Config {
	if global == nil {
		setDefaults()
		if err := Load(); err != nil {
			global = &Config{}
		}
	}
	return global
}

func setDefaults() {
	viper.SetDefault("server.url", "http://localhost:8080")
	viper.SetDefault("server.timeout", 90)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.log_file", "tessera.log")
	viper.SetDefault("logging.persist", false)

	viper.SetDefault("display.animate", true)
	viper.SetDefault("display.show_documents", true)
	viper.SetDefault("display.width", 0) // 0 means use the terminal width
}

// BaseSettingsDir returns the directory settings-adjacent files live in
func BaseSettingsDir() string {
	if configPath := viper.GetString("config.path"); configPath != "" {
		return configPath
	}
	if current := viper.ConfigFileUsed(); current != "" {
		return filepath.Dir(current)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tessera"
	}
	return filepath.Join(home, ".tessera")
}

// BuildSettingsPath joins target onto the settings directory
func BuildSettingsPath(target string) string {
	return filepath.Join(BaseSettingsDir(), target)
}
