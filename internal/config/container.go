package config

import (
	"fmt"

	"pdf-viewer/internal/domain"
	"pdf-viewer/internal/repository"
	"pdf-viewer/internal/service"
	"pdf-viewer/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config              domain.Config
	Logger              domain.Logger
	SupabaseClient      domain.SupabaseClient
	HighlightRepository domain.HighlightRepository
	HighlightService    domain.HighlightService
}

// NewContainer creates a new dependency injection container. The highlight
// repository is chosen by the STORE_BACKEND setting.
func NewContainer() (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	container := &Container{
		Config: config,
		Logger: appLogger,
	}

	switch config.GetStoreBackend() {
	case "memory":
		container.HighlightRepository = repository.NewMemoryHighlightRepository(appLogger)
	case "sqlite":
		repo, err := repository.NewSQLiteHighlightRepository(config.GetSQLitePath(), appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		container.HighlightRepository = repo
	case "supabase":
		supabaseClient := repository.NewSupabaseClient(config, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to initialize supabase client: %w", err)
		}
		container.SupabaseClient = supabaseClient
		container.HighlightRepository = repository.NewSupabaseHighlightRepository(supabaseClient, appLogger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.GetStoreBackend())
	}

	container.HighlightService = service.NewHighlightService(container.HighlightRepository, appLogger)
	return container, nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
