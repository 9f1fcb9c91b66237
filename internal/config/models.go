package config

import "time"

// Config holds the configuration of the SDK, the CLI and the local collector.
type Config struct {
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

type AnalyticsConfig struct {
	// Endpoint is either an absolute URL or one of the Endpoints aliases.
	Endpoint string `mapstructure:"endpoint"`
	Token    string `mapstructure:"token"`
	// EnableAnalytics defaults to true when unset.
	EnableAnalytics *bool         `mapstructure:"enable_analytics"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// AnalyticsEnabled reports the effective enableAnalytics option.
func (c *AnalyticsConfig) AnalyticsEnabled() bool {
	if c.EnableAnalytics == nil {
		return true
	}
	return *c.EnableAnalytics
}

type StorageConfig struct {
	// Type is one of memory, sqlite or redis.
	Type  string      `mapstructure:"type"`
	Path  string      `mapstructure:"path"`
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// Token, when set, is required as a Bearer token on collected events.
	Token        string `mapstructure:"token"`
	DatabasePath string `mapstructure:"database_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
