package geodata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
)

const boundariesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "properties": {"CFSAUID": "M5V", "PRNAME": "Ontario"},
     "geometry": {"type": "Polygon", "coordinates": [[[-79.4,43.6],[-79.4,43.7],[-79.3,43.7],[-79.3,43.6],[-79.4,43.6]]]}},
    {"type": "Feature",
     "properties": {"CFSAUID": "M4C", "PRNAME": "Ontario"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[-79.3,43.6],[-79.3,43.8],[-79.1,43.8],[-79.1,43.6],[-79.3,43.6]]]]}}
  ]
}`

const stationsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "properties": {"Location": "City Hall", "Level2_Charging_Ports": 4, "Level3_Charging_Ports": 0},
     "geometry": {"type": "Point", "coordinates": [-79.3832, 43.6534]}},
    {"type": "Feature",
     "properties": {"Location": "Union Station", "Level2_Charging_Ports": "2", "Level3_Charging_Ports": 1},
     "geometry": {"type": "MultiPoint", "coordinates": [[-79.38, 43.64], [-79.38, 43.66]]}},
    {"type": "Feature",
     "properties": {"Location": "Depot", "Level2_Charging_Ports": null, "Level3_Charging_Ports": null},
     "geometry": {"type": "Point", "coordinates": [-79.5, 43.7]}}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// closeShapefile closes w and moves its attribute table to <base>.dbf.
// go-shp's writer names it <base>dbf, which its reader never opens.
func closeShapefile(t *testing.T, w *shp.Writer, path string) {
	t.Helper()
	w.Close()
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
}
