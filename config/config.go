// Package config loads runtime configuration from an optional YAML file,
// with environment variables taking precedence.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything main needs to wire the core together.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	DataDir    string `mapstructure:"data_dir"`
	InMemory   bool   `mapstructure:"in_memory"`
	NATSURL    string `mapstructure:"nats_url"`
	LogLevel   string `mapstructure:"log_level"`
}

// Load reads configuration from the given YAML file if it exists, then
// applies environment overrides (WALLETCORE_LISTEN_ADDR and friends). A
// local .env file is honored for development.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it only exists in development setups.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("in_memory", false)
	v.SetDefault("nats_url", "")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("walletcore")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
