package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is loaded from config.yaml (optional) with environment
// variables taking precedence.
type Config struct {
	Port      string `mapstructure:"port"`
	AWSRegion string `mapstructure:"aws_region"`
	JWTSecret string `mapstructure:"jwt_secret"`
	LogDev    bool   `mapstructure:"log_dev"`

	WS WSConfig `mapstructure:"ws"`
}

type WSConfig struct {
	WriteWaitSeconds    int   `mapstructure:"write_wait_seconds"`
	PongWaitSeconds     int   `mapstructure:"pong_wait_seconds"`
	MaxMessageSizeBytes int64 `mapstructure:"max_message_size_bytes"`
}

func (w WSConfig) WriteWait() time.Duration {
	return time.Duration(w.WriteWaitSeconds) * time.Second
}

func (w WSConfig) PongWait() time.Duration {
	return time.Duration(w.PongWaitSeconds) * time.Second
}

// PingPeriod must fire before the read deadline expires.
func (w WSConfig) PingPeriod() time.Duration {
	return w.PongWait() * 9 / 10
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can resolve it during
	// Unmarshal even when no config file is present.
	v.SetDefault("port", "8080")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("log_dev", false)
	v.SetDefault("ws.write_wait_seconds", 10)
	v.SetDefault("ws.pong_wait_seconds", 60)
	v.SetDefault("ws.max_message_size_bytes", 65536)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	return &cfg, nil
}
