package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds console configuration
type Config struct {
	Env             string
	LogLevel        string
	APIBaseURL      string
	RealtimeURL     string
	RequestTimeout  time.Duration
	DiagnosticsAddr string
	EnableRealtime  bool
	ReconnectBase   time.Duration
	ReconnectMax    time.Duration
	FeedSize        int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:5000/api"),
		RealtimeURL:     getEnv("REALTIME_URL", "ws://localhost:5000/ws"),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		DiagnosticsAddr: getEnv("DIAGNOSTICS_ADDR", "127.0.0.1:9091"),
		EnableRealtime:  getEnvAsBool("ENABLE_REALTIME", true),
		ReconnectBase:   getEnvAsDuration("REALTIME_RECONNECT_BASE", 2*time.Second),
		ReconnectMax:    getEnvAsDuration("REALTIME_RECONNECT_MAX", time.Minute),
		FeedSize:        getEnvAsInt("NOTIFICATION_FEED_SIZE", 50),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
