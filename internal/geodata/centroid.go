package geodata

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// LatLon is a WGS84 coordinate in map order.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Centroid returns the geometric centroid of g. A nil or empty geometry is an error.
func Centroid(g geom.T) (LatLon, error) {
	if g == nil {
		return LatLon{}, eris.New("geodata: centroid of nil geometry")
	}
	if len(g.FlatCoords()) == 0 {
		return LatLon{}, eris.New("geodata: centroid of empty geometry")
	}

	c, err := xy.Centroid(g)
	if err != nil {
		return LatLon{}, eris.Wrap(err, "geodata: centroid")
	}
	return LatLon{Lat: c.Y(), Lon: c.X()}, nil
}
