package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/redis/go-redis/v9"

	"github.com/vincentbai/usageanalytics/internal/config"
	"github.com/vincentbai/usageanalytics/internal/database"
)

// VisitorIDKey is the key under which the visitor identity is persisted.
const VisitorIDKey = "visitorId"

// Storage is the key/value contract backing the visitor identity. Calls are
// treated as synchronous and immediately consistent. GetItem returns "" for
// a missing key.
type Storage interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
}

// Backend is a Storage that owns resources.
type Backend interface {
	Storage
	io.Closer
}

// Open builds the backend selected by cfg.Type.
func Open(cfg *config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			directory, err := ApplicationDirectory()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(directory, "visitor.db")
		}
		db, err := database.NewDatabase(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStorage(client, cfg.Redis.KeyPrefix), nil
	default:
		return nil, config.NewConfigurationError("storage.type", fmt.Sprintf("unknown storage type %q", cfg.Type))
	}
}

// ApplicationDirectory returns the platform-specific data directory, creating
// it if needed.
func ApplicationDirectory() (string, error) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	var applicationDirectory string
	switch runtime.GOOS {
	case "darwin":
		applicationDirectory = filepath.Join(homeDirectory, "Library", "Application Support", "UsageAnalytics")
	case "windows":
		applicationDirectory = filepath.Join(homeDirectory, "AppData", "Roaming", "UsageAnalytics")
	default: // linux and others
		applicationDirectory = filepath.Join(homeDirectory, ".local", "share", "UsageAnalytics")
	}
	if err := os.MkdirAll(applicationDirectory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create application directory: %w", err)
	}
	return applicationDirectory, nil
}
