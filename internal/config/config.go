package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vincentbai/usageanalytics/internal/logger"
)

var log = logger.GetLogger()

const EnvPrefix = "USAGEANALYTICS"

// LoadConfig loads the config file and ENV variables into a Config struct.
// When configFile is empty a config.yaml in the working directory is used if
// present; a missing implicit file is not an error.
func LoadConfig(configFile string) (*Config, error) {
	// Environment variables take precedence over config file
	loadDotEnv()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analytics.endpoint", Endpoints["default"])
	v.SetDefault("analytics.token", "")
	v.SetDefault("analytics.enable_analytics", true)
	v.SetDefault("analytics.timeout", 10*time.Second)
	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.redis.address", "127.0.0.1:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key_prefix", "usageanalytics:")
	v.SetDefault("server.address", "127.0.0.1:8123")
	v.SetDefault("server.token", "")
	v.SetDefault("server.database_path", "")
	v.SetDefault("log.level", "warn")
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// Validate checks the options that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := ResolveEndpoint(c.Analytics.Endpoint); err != nil {
		return err
	}
	if c.Analytics.Timeout < 0 {
		return NewConfigurationError("analytics.timeout", "must not be negative")
	}
	switch c.Storage.Type {
	case "memory", "sqlite":
	case "redis":
		if c.Storage.Redis.Address == "" {
			return NewConfigurationError("storage.redis.address", "required for redis storage")
		}
	default:
		return NewConfigurationError("storage.type", "must be one of memory, sqlite, redis")
	}
	return nil
}

// SetLogLevel sets the log level based on the config file. Defaults to WARN if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLogLevel(level)
	log.Debug("Log level set to: ", level)
}
