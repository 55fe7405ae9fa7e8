package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gta-evmap/internal/dashboard"
	"github.com/sells-group/gta-evmap/internal/geodata"
	"github.com/sells-group/gta-evmap/internal/sales"
)

// dashboardEnv holds the static inputs and the renderer shared by the
// serve and render commands.
type dashboardEnv struct {
	Regions  []geodata.Region
	Stations []geodata.ChargingStation
	Catalog  *sales.Catalog
	Source   *sales.Source
	Renderer *dashboard.Renderer
}

// initDashboard loads boundaries and stations once and builds the renderer.
// Any missing or malformed input is fatal.
func initDashboard(ctx context.Context, command string) (*dashboardEnv, error) {
	if err := cfg.Validate(command); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "init dashboard")
	}

	regions, err := geodata.LoadRegions(cfg.Data.Boundaries)
	if err != nil {
		return nil, eris.Wrap(err, "load boundaries")
	}
	stations, err := geodata.LoadStations(cfg.Data.Stations)
	if err != nil {
		return nil, eris.Wrap(err, "load stations")
	}

	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	cache := sales.NewCache(cfg.Sales.CacheEntries, time.Duration(cfg.Sales.CacheTTLMins)*time.Minute)
	source := sales.NewSource(catalog, cache)

	return &dashboardEnv{
		Regions:  regions,
		Stations: stations,
		Catalog:  catalog,
		Source:   source,
		Renderer: dashboard.NewRenderer(regions, stations, source, mapConfig()),
	}, nil
}

// loadCatalog prefers the YAML manifest and falls back to the built-in quarters.
func loadCatalog() (*sales.Catalog, error) {
	if cfg.Data.Manifest != "" {
		c, err := sales.LoadManifest(cfg.Data.Manifest)
		if err != nil {
			return nil, eris.Wrap(err, "load quarter manifest")
		}
		return c, nil
	}
	return sales.DefaultCatalog(cfg.Data.SalesDir), nil
}

func mapConfig() dashboard.MapConfig {
	return dashboard.MapConfig{
		Center: geodata.LatLon{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon},
		Zoom:   cfg.Map.Zoom,
		Width:  cfg.Map.Width,
		Height: cfg.Map.Height,
	}
}
