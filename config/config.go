// Package config reads starchase.yaml through viper. Every key has a default,
// so running without a config file is fine.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const FileName = "starchase"

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	TPS    int    `mapstructure:"tps"`
}

type RecordConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Gzip    bool   `mapstructure:"gzip"`
	FPS     int    `mapstructure:"fps"`
}

type Config struct {
	LogLevel string       `mapstructure:"logLevel"`
	LogFile  string       `mapstructure:"logFile"`
	Debug    bool         `mapstructure:"debug"`
	Tuning   string       `mapstructure:"tuning"`
	Window   WindowConfig `mapstructure:"window"`
	Record   RecordConfig `mapstructure:"record"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")
	viper.SetDefault("debug", false)
	viper.SetDefault("tuning", "")

	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "Star Chase")
	viper.SetDefault("window.tps", 60)

	viper.SetDefault("record.backend", "jsonl")
	viper.SetDefault("record.path", "./recordings/chase.jsonl")
	viper.SetDefault("record.gzip", false)
	viper.SetDefault("record.fps", 60)
}

// Load registers defaults and reads starchase.yaml from configDir. A missing
// file is not an error; a malformed one is.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.SetConfigType("yaml")
	if configDir == "" {
		configDir = "."
	}
	viper.AddConfigPath(configDir)

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current decodes the merged viper state (defaults, file, bound flags).
func Current() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Window.TPS <= 0 {
		return Config{}, fmt.Errorf("config: window.tps must be positive, got %d", cfg.Window.TPS)
	}
	if cfg.Record.FPS <= 0 {
		return Config{}, fmt.Errorf("config: record.fps must be positive, got %d", cfg.Record.FPS)
	}
	return cfg, nil
}

// UsedFile is the config file that was read, or "" when defaults apply.
func UsedFile() string {
	return viper.ConfigFileUsed()
}

func GetString(key string) string {
	return viper.GetString(key)
}

func GetInt(key string) int {
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	return viper.GetBool(key)
}
