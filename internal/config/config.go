package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string `mapstructure:"port"`
	Mode          string `mapstructure:"mode"`
	LogLevel      string `mapstructure:"log_level"`
	ExportEnabled bool   `mapstructure:"export_enabled"`
	ExportFile    string `mapstructure:"export_file"`
}

// Load reads config.yaml (working dir or ./config) merged with POINTDECK_*
// environment variables. A missing file is fine, defaults cover everything.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("pointdeck")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("export_enabled", false)
	v.SetDefault("export_file", "./pointdeck-results.txt")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
