package geodata

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
)

func readFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "geodata: decode geojson %s", path)
	}
	return &fc, nil
}

func regionsFromGeoJSON(path string) ([]Region, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	regions := make([]Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		if _, ok := f.Properties[FieldFSA]; !ok {
			return nil, eris.Errorf("geodata: feature %d in %s has no %s", i, path, FieldFSA)
		}
		regions = append(regions, Region{
			FSA:        stringProperty(f.Properties, FieldFSA),
			Geometry:   f.Geometry,
			Properties: f.Properties,
		})
	}
	return regions, nil
}

func stationsFromGeoJSON(path string) ([]ChargingStation, error) {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	stations := make([]ChargingStation, 0, len(fc.Features))
	for i, f := range fc.Features {
		l2, err := portProperty(f.Properties, FieldLevel2Ports)
		if err != nil {
			return nil, eris.Wrapf(err, "geodata: feature %d in %s", i, path)
		}
		l3, err := portProperty(f.Properties, FieldLevel3Ports)
		if err != nil {
			return nil, eris.Wrapf(err, "geodata: feature %d in %s", i, path)
		}
		stations = append(stations, ChargingStation{
			Location:    stringProperty(f.Properties, FieldLocation),
			Level2Ports: l2,
			Level3Ports: l3,
			Geometry:    f.Geometry,
			Properties:  f.Properties,
		})
	}
	return stations, nil
}
