package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bobmcallan/dart-portal/internal/common"
	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/bobmcallan/dart-portal/internal/dart"
	"github.com/bobmcallan/dart-portal/internal/financial"
	"github.com/bobmcallan/dart-portal/internal/handlers"
	"github.com/bobmcallan/dart-portal/internal/interfaces"
	"github.com/bobmcallan/dart-portal/internal/mcp"
	"github.com/bobmcallan/dart-portal/internal/narrative"
	"github.com/bobmcallan/dart-portal/internal/storage"
)

// MCPCatalog converts the MCP tool catalog to page display tools.
func MCPCatalog() []handlers.MCPPageTool {
	catalog := mcp.Catalog()
	tools := make([]handlers.MCPPageTool, len(catalog))
	for i, ct := range catalog {
		tools[i] = handlers.MCPPageTool{
			Name:        ct.Name,
			Description: ct.Description,
			Params:      ct.Params,
		}
	}
	return tools
}

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Storage   interfaces.StorageManager
	DART      *dart.Client
	Financial *financial.Service
	Narrative *narrative.Service

	// HTTP handlers
	PageHandler    *handlers.PageHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	APIHandler     *handlers.APIHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := a.initServices(); err != nil {
		return nil, err
	}
	a.initHandlers()

	logger.Info().
		Bool("narrative", a.Narrative.Enabled()).
		Str("storage", cfg.Storage.Driver).
		Msg("application initialization complete")

	return a, nil
}

// NewClient builds the OpenDART client described by cfg.
func NewClient(cfg *config.Config, logger *common.Logger) *dart.Client {
	return dart.NewClient(cfg.DART.BaseURL, cfg.DART.APIKey, cfg.DART.GetTimeout(),
		dart.WithRateLimit(cfg.DART.RatePerSecond, cfg.DART.Burst),
		dart.WithLogger(logger),
	)
}

// initServices opens storage and builds the domain services.
func (a *App) initServices() error {
	store, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.Storage = store

	if n, err := store.CompanyStore().Count(context.Background()); err == nil && n == 0 {
		a.Logger.Warn().Msg("company directory is empty; run `dartctl load-corpcodes` to populate search")
	}

	a.DART = NewClient(a.Config, a.Logger)
	a.Financial = financial.NewService(a.DART, store, a.Config.Search, a.Logger)

	var gen narrative.Generator
	if a.Config.NarrativeEnabled() {
		g, err := narrative.NewGeminiGenerator(context.Background(), a.Config.Gemini,
			&http.Client{Timeout: a.Config.Gemini.GetTimeout()})
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Gemini client unavailable, AI analysis disabled")
		} else {
			gen = g
		}
	} else {
		a.Logger.Info().Msg("GEMINI_API_KEY not set, AI analysis disabled")
	}
	a.Narrative = narrative.NewService(gen, a.Config.Gemini.GetCacheTTL(), a.Config.Gemini.CacheEntries, a.Logger)

	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	devMode := !a.Config.IsProduction()

	a.PageHandler = handlers.NewPageHandler(a.Logger, devMode, a.Financial, a.Narrative.Enabled())
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Storage.CompanyStore().Count)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.APIHandler = handlers.NewAPIHandler(a.Logger, a.Financial, a.Narrative)
	a.MCPHandler = mcp.NewHandler(a.Financial, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	return a.Storage.Close()
}
