package geodata

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LoadRegions reads area boundaries from a .geojson/.json or .shp file.
func LoadRegions(path string) ([]Region, error) {
	var (
		regions []Region
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		regions, err = regionsFromGeoJSON(path)
	case ".shp":
		regions, err = regionsFromShapefile(path)
	default:
		return nil, eris.Errorf("geodata: unsupported boundary format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("boundaries loaded",
		zap.String("component", "geodata"),
		zap.String("path", path),
		zap.Int("regions", len(regions)),
	)
	return regions, nil
}

// LoadStations reads charging stations from a .geojson/.json or .shp file.
func LoadStations(path string) ([]ChargingStation, error) {
	var (
		stations []ChargingStation
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		stations, err = stationsFromGeoJSON(path)
	case ".shp":
		stations, err = stationsFromShapefile(path)
	default:
		return nil, eris.Errorf("geodata: unsupported station format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("stations loaded",
		zap.String("component", "geodata"),
		zap.String("path", path),
		zap.Int("stations", len(stations)),
	)
	return stations, nil
}
