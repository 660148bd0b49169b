// Package config loads pool and storage settings from a YAML file.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config controls how the demo CLI wires a BufferPool to its backing file.
type Config struct {
	PoolSize int    `mapstructure:"pool_size"`
	PageSize int    `mapstructure:"page_size"`
	DataDir  string `mapstructure:"data_dir"`
	DataFile string `mapstructure:"data_file"`
	LogLevel string `mapstructure:"log_level"`
}

// Default returns the settings the CLI falls back to when no config file
// is given.
func Default() Config {
	return Config{
		PoolSize: 64,
		PageSize: 8 * 1024,
		DataDir:  ".",
		DataFile: "pages.db",
		LogLevel: "info",
	}
}

// Load reads and unmarshals a YAML config file at path, starting from the
// defaults so a partial file only overrides what it sets.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
