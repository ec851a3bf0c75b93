package domain

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetStoreBackend() string
	GetSQLitePath() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetDefaultPageHeight() float64
	GetVirtualBuffer() float64
	GetDevicePixelRatio() float64
}
