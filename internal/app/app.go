// Package app wires the session context: configuration, logging, storage
// and the ingestion/report services, composed by delegation with an
// explicit load/save lifecycle.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/clientfolio/internal/common"
	"github.com/ternarybob/clientfolio/internal/interfaces"
	"github.com/ternarybob/clientfolio/internal/services/factsheet"
	"github.com/ternarybob/clientfolio/internal/services/match"
	"github.com/ternarybob/clientfolio/internal/services/profile"
	"github.com/ternarybob/clientfolio/internal/services/ratings"
	"github.com/ternarybob/clientfolio/internal/services/report"
	"github.com/ternarybob/clientfolio/internal/services/spreadsheet"
	"github.com/ternarybob/clientfolio/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	Matcher             interfaces.Matcher
	Ratings             interfaces.RatingsStore
	SpreadsheetParser   interfaces.SpreadsheetParser
	SpreadsheetIngestor interfaces.SpreadsheetIngestor
	FactSheetIngestor   interfaces.FactSheetIngestor
	ReportComposer      interfaces.ReportComposer
	ProfileService      interfaces.ProfileService
}

// New creates the application with all services wired.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	matcher := match.NewService()
	ratingsStore := ratings.NewService(storageManager.RatingsStorage(), logger)
	fetcher := factsheet.NewFetcher(&config.Fetch, logger)
	extractor := factsheet.NewExtractor(logger)

	app := &App{
		Config:              config,
		Logger:              logger,
		StorageManager:      storageManager,
		Matcher:             matcher,
		Ratings:             ratingsStore,
		SpreadsheetParser:   spreadsheet.NewParser(logger),
		SpreadsheetIngestor: spreadsheet.NewIngestor(matcher, ratingsStore, logger),
		FactSheetIngestor:   factsheet.NewIngestor(matcher, ratingsStore, fetcher, extractor, logger),
		ReportComposer:      report.NewService(logger),
	}

	if config.Profile.BaseURL != "" {
		app.ProfileService = profile.NewClient(
			config.Profile.BaseURL,
			config.Profile.APIKey,
			profile.WithLogger(logger),
		)
	}

	logger.Info().Msg("Application services initialized")
	return app, nil
}

// LoadSession primes the ratings store for a client session.
func (a *App) LoadSession(ctx context.Context, clientID string) error {
	return a.Ratings.Load(ctx, clientID)
}

// Close releases application resources.
func (a *App) Close() error {
	if a.StorageManager != nil {
		return a.StorageManager.Close()
	}
	return nil
}
