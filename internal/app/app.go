// Package app wires configuration, logging, the session store and the
// services into one shared core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/ficopilot/internal/common"
	"github.com/bobmcallan/ficopilot/internal/interfaces"
	"github.com/bobmcallan/ficopilot/internal/render"
	"github.com/bobmcallan/ficopilot/internal/services/query"
	"github.com/bobmcallan/ficopilot/internal/services/report"
	"github.com/bobmcallan/ficopilot/internal/storage"
)

// App holds all initialized services and stores.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Sessions      interfaces.SessionStore
	ReportService interfaces.ReportService
	QueryService  interfaces.QueryService
	Renderer      interfaces.ChartRenderer
	StartupTime   time.Time

	janitorCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, the session store and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, FICOPILOT_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FICOPILOT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "ficopilot.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/ficopilot.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	sessions := storage.NewSessionStore(logger)
	reportService := report.NewService(logger)
	queryService := query.NewService(reportService, logger)

	return &App{
		Config:        config,
		Logger:        logger,
		Sessions:      sessions,
		ReportService: reportService,
		QueryService:  queryService,
		Renderer:      render.NewRenderer(),
		StartupTime:   time.Now(),
	}, nil
}

// Close stops background work.
func (a *App) Close() {
	if a.janitorCancel != nil {
		a.janitorCancel()
	}
}
