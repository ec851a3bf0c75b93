package config

import (
	"os"
	"strconv"

	"pdf-viewer/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort        string
	LogLevel          string
	StoreBackend      string
	SQLitePath        string
	SupabaseURL       string
	SupabaseKey       string
	DefaultPageHeight float64
	VirtualBuffer     float64
	DevicePixelRatio  float64
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:        getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		StoreBackend:      getEnvOrDefault("STORE_BACKEND", "memory"),
		SQLitePath:        getEnvOrDefault("SQLITE_PATH", "./highlights.db"),
		SupabaseURL:       getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:       getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		DefaultPageHeight: getEnvFloatOrDefault("DEFAULT_PAGE_HEIGHT", 800),
		VirtualBuffer:     getEnvFloatOrDefault("VIRTUAL_BUFFER", 600),
		DevicePixelRatio:  getEnvFloatOrDefault("DEVICE_PIXEL_RATIO", 1.0),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetStoreBackend returns the highlight storage backend (memory, sqlite or supabase)
func (c *AppConfig) GetStoreBackend() string {
	return c.StoreBackend
}

// GetSQLitePath returns the path of the SQLite database file
func (c *AppConfig) GetSQLitePath() string {
	return c.SQLitePath
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetDefaultPageHeight returns the estimated page height used before a page
// has been measured
func (c *AppConfig) GetDefaultPageHeight() float64 {
	return c.DefaultPageHeight
}

// GetVirtualBuffer returns the extra distance beyond the viewport that is
// still rendered
func (c *AppConfig) GetVirtualBuffer() float64 {
	return c.VirtualBuffer
}

// GetDevicePixelRatio returns the display density used for canvas sizing
func (c *AppConfig) GetDevicePixelRatio() float64 {
	return c.DevicePixelRatio
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
