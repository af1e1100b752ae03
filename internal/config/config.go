package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Currency     string
	BusinessName string
	LocalStore   LocalStoreConfig
	Firebase     FirebaseConfig
	WhatsApp     WhatsAppConfig
	Storage      StorageConfig
	Dispatch     DispatchConfig
}

type LocalStoreConfig struct {
	Path string
}

type FirebaseConfig struct {
	CredentialsFile string
	ProjectID       string
}

type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	Timeout       time.Duration
}

type StorageConfig struct {
	Bucket string
	Folder string
}

type DispatchConfig struct {
	Delay     time.Duration
	Workers   int
	QueueSize int
}

// Load reads configuration from environment variables, applying defaults
// for everything optional. Only malformed values are errors; missing cloud
// credentials simply leave those adapters unconfigured.
func Load() (*Config, error) {
	dispatchDelay, err := time.ParseDuration(getEnv("DISPATCH_DELAY", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPATCH_DELAY: %w", err)
	}
	dispatchWorkers, err := strconv.Atoi(getEnv("DISPATCH_WORKERS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPATCH_WORKERS: %w", err)
	}
	dispatchQueue, err := strconv.Atoi(getEnv("DISPATCH_QUEUE_SIZE", "32"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPATCH_QUEUE_SIZE: %w", err)
	}
	waTimeout, err := time.ParseDuration(getEnv("WHATSAPP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WHATSAPP_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Currency:     getEnv("CURRENCY", "MXN"),
		BusinessName: getEnv("BUSINESS_NAME", ""),
		LocalStore: LocalStoreConfig{
			Path: getEnv("LIBRETA_DB_PATH", defaultDBPath()),
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			BaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
			Timeout:       waTimeout,
		},
		Storage: StorageConfig{
			Bucket: getEnv("STORAGE_BUCKET", ""),
			Folder: getEnv("STORAGE_FOLDER", "images"),
		},
		Dispatch: DispatchConfig{
			Delay:     dispatchDelay,
			Workers:   dispatchWorkers,
			QueueSize: dispatchQueue,
		},
	}

	if cfg.Dispatch.Workers < 1 {
		return nil, fmt.Errorf("DISPATCH_WORKERS must be at least 1")
	}

	return cfg, nil
}

// CloudEnabled reports whether the remote document store can be used.
func (c *Config) CloudEnabled() bool {
	return c.Firebase.ProjectID != ""
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "libreta.db"
	}
	return filepath.Join(home, ".libreta", "libreta.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
