package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only FIREBASE_PROJECT_ID is required.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Firebase. CredentialsFile is optional: when empty, application
	// default credentials are used.
	ProjectID       string
	CredentialsFile string

	// Pipeline workers pulling events off the queue.
	Workers int

	// Delivery sizing: tokens per multicast call and user ids per store
	// multi-get.
	BatchSize int
	ChunkSize int

	// Maximum provider send calls per second.
	SendRate int
}

func Load() (*Config, error) {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		ProjectID:       projectID,
		CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),

		Workers: getInt("EVENT_WORKERS", 8),

		BatchSize: getInt("PUSH_BATCH_SIZE", 500),
		ChunkSize: getInt("USER_CHUNK_SIZE", 10),

		SendRate: getInt("PUSH_SEND_RATE", 50),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
