package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/va6996/mountvacation-mcp/config"
	"github.com/va6996/mountvacation-mcp/log"
	"github.com/va6996/mountvacation-mcp/orm"
	"github.com/va6996/mountvacation-mcp/plugins/core"
	"github.com/va6996/mountvacation-mcp/plugins/googlemaps"
	"github.com/va6996/mountvacation-mcp/plugins/mountvacation"
	"github.com/va6996/mountvacation-mcp/plugins/nager"
	"github.com/va6996/mountvacation-mcp/plugins/redis"
	"github.com/va6996/mountvacation-mcp/tools"
)

const (
	ServerName = "MountVacation Search"
	Version    = "1.0.0"
)

// App holds the initialized components of the application
type App struct {
	Config    *config.Config
	Registry  *tools.Registry
	MCPServer *server.MCPServer
	Searcher  *mountvacation.Searcher
	Cache     *mountvacation.ResultCache

	// Store is the shared cache backend, nil for the memory backend.
	Store mountvacation.Store
	sql   *orm.CacheStore
	close func() error
}

// Setup initializes the application components based on the configuration
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	// 1. Shared cache backend
	app := &App{Config: cfg}
	if err := app.openStore(ctx); err != nil {
		return nil, err
	}

	// 2. Location resolution, optionally backed by Google geocoding
	var geocoder mountvacation.Geocoder
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err := googlemaps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize Google Maps client: %w", err)
		}
		log.Infof(ctx, "Geocoding fallback enabled via Google Maps")
		geocoder = mapsClient
	}
	resolver := mountvacation.NewResolver(nil, geocoder)

	// 3. Search pipeline
	app.Cache = mountvacation.NewResultCache(cfg.Cache.MaxSize, cfg.Cache.TTL(), cfg.Cache.ErrorTTL(), app.Store)
	app.Searcher = mountvacation.NewSearcher(
		mountvacation.NewClient(cfg.MountVacation),
		resolver,
		app.Cache,
		cfg.Search.MaxResultsDefault,
		cfg.Search.MaxResultsLimit,
	)

	// 4. Tools
	app.Registry = tools.NewRegistry()
	mountvacation.NewPlugin(app.Searcher, app.Registry)
	core.NewClient(app.Registry)
	if cfg.Holidays.Enabled {
		nager.NewClient(cfg.Holidays.BaseURL, app.Registry)
	}

	// 5. MCP server
	app.MCPServer = server.NewMCPServer(ServerName, Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	app.Registry.Attach(app.MCPServer)

	log.Infof(ctx, "Registered %d tools: %v", len(app.Registry.Names()), app.Registry.Names())
	return app, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config.Cache
	switch cfg.Backend {
	case "sqlite", "postgres":
		db, err := orm.Open(cfg.Backend, cfg.DSN)
		if err != nil {
			return err
		}
		store, err := orm.NewCacheStore(db)
		if err != nil {
			return err
		}
		a.Store, a.sql, a.close = store, store, store.Close
	case "redis":
		store, err := redis.NewStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		a.Store, a.close = store, store.Close
	}
	log.Infof(ctx, "Using %s cache backend", cfg.Backend)
	return nil
}

// StartCleanup periodically drops expired rows from a SQL cache backend until ctx is done.
// It does nothing for other backends.
func (a *App) StartCleanup(ctx context.Context, interval time.Duration) {
	if a.sql == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := a.sql.CleanupCache(ctx)
				if err != nil {
					log.Warnf(ctx, "Cache cleanup failed: %v", err)
					continue
				}
				if n > 0 {
					log.Debugf(ctx, "Cache cleanup removed %d expired entries", n)
				}
			}
		}
	}()
}

// Close releases the cache backend.
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
