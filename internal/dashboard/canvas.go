package dashboard

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/gta-evmap/internal/geodata"
)

// LayerKind identifies what a layer draws.
type LayerKind string

// Layer kinds, in drawing order.
const (
	LayerBoundaries LayerKind = "boundaries"
	LayerLevel2     LayerKind = "level2"
	LayerLevel3     LayerKind = "level3"
	LayerHeatmap    LayerKind = "heatmap"
)

// Marker colors per charger level.
const (
	Level2Color = "blue"
	Level3Color = "green"
	markerIcon  = "info-sign"
)

// MapConfig fixes the initial view of the map.
type MapConfig struct {
	Center geodata.LatLon `json:"center"`
	Zoom   int            `json:"zoom"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
}

// DefaultMapConfig centers on the Greater Toronto Area.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Center: geodata.LatLon{Lat: 43.7, Lon: -79.4},
		Zoom:   10,
		Width:  800,
		Height: 600,
	}
}

// Marker is a single station pin.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
	Color string  `json:"color"`
	Icon  string  `json:"icon"`
}

// HeatPoint is a weighted heatmap sample.
type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Weight float64 `json:"weight"`
}

// Layer is one drawable overlay. Only the field matching Kind is set.
type Layer struct {
	Kind       LayerKind       `json:"kind"`
	Name       string          `json:"name"`
	Boundaries json.RawMessage `json:"boundaries,omitempty"`
	Markers    []Marker        `json:"markers,omitempty"`
	Heat       []HeatPoint     `json:"heat,omitempty"`
}

// Canvas is the composed map: a fixed view plus ordered layers.
type Canvas struct {
	MapConfig
	Layers []Layer `json:"layers"`
}

// NewCanvas creates an empty canvas.
func NewCanvas(cfg MapConfig) *Canvas {
	return &Canvas{MapConfig: cfg, Layers: []Layer{}}
}

// Layer returns the first layer of the given kind.
func (c *Canvas) Layer(kind LayerKind) (Layer, bool) {
	for _, l := range c.Layers {
		if l.Kind == kind {
			return l, true
		}
	}
	return Layer{}, false
}

func (c *Canvas) add(l Layer) { c.Layers = append(c.Layers, l) }

// Compose draws the boundary layer unconditionally, then the Level 2
// markers, Level 3 markers, and heatmap as the toggles allow.
func Compose(cfg MapConfig, joined []JoinedRegion, level2, level3 []geodata.ChargingStation, t Toggles) (*Canvas, error) {
	c := NewCanvas(cfg)

	boundaries, err := boundaryLayer(joined)
	if err != nil {
		return nil, err
	}
	c.add(boundaries)

	if t.Level2 {
		l, err := markerLayer(LayerLevel2, "Level 2 Chargers", Level2Color, level2)
		if err != nil {
			return nil, err
		}
		c.add(l)
	}

	if t.Level3 {
		l, err := markerLayer(LayerLevel3, "Level 3 Chargers", Level3Color, level3)
		if err != nil {
			return nil, err
		}
		c.add(l)
	}

	if t.Heatmap {
		heat, err := HeatPoints(joined)
		if err != nil {
			return nil, err
		}
		c.add(Layer{Kind: LayerHeatmap, Name: "EV Sales", Heat: heat})
	}

	return c, nil
}

func boundaryLayer(joined []JoinedRegion) (Layer, error) {
	features := make([]*geojson.Feature, 0, len(joined))
	for _, jr := range joined {
		if jr.Geometry == nil {
			return Layer{}, eris.Errorf("dashboard: region %s has no geometry", jr.FSA)
		}
		features = append(features, &geojson.Feature{
			ID:         jr.FSA,
			Geometry:   jr.Geometry,
			Properties: regionProperties(jr),
		})
	}

	data, err := json.Marshal(&geojson.FeatureCollection{Features: features})
	if err != nil {
		return Layer{}, eris.Wrap(err, "dashboard: encode boundaries")
	}
	return Layer{Kind: LayerBoundaries, Name: "GTA", Boundaries: data}, nil
}

// regionProperties merges boundary attributes with the quarter's sales fields.
func regionProperties(jr JoinedRegion) map[string]any {
	props := make(map[string]any, len(jr.Properties)+len(jr.Sales.Extra)+2)
	for k, v := range jr.Properties {
		props[k] = v
	}
	for k, v := range jr.Sales.Extra {
		props[k] = v
	}
	props[geodata.FieldFSA] = jr.FSA
	props["TotalEV"] = jr.Sales.TotalEV
	return props
}

func markerLayer(kind LayerKind, name, color string, stations []geodata.ChargingStation) (Layer, error) {
	markers := make([]Marker, 0, len(stations))
	for _, s := range stations {
		c, err := geodata.Centroid(s.Geometry)
		if err != nil {
			return Layer{}, eris.Wrapf(err, "dashboard: station %q", s.Location)
		}
		markers = append(markers, Marker{
			Lat:   c.Lat,
			Lon:   c.Lon,
			Popup: s.Location,
			Color: color,
			Icon:  markerIcon,
		})
	}
	return Layer{Kind: kind, Name: name, Markers: markers}, nil
}

// HeatPoints returns one point per joined region at its centroid, weighted
// by the region's TotalEV.
func HeatPoints(joined []JoinedRegion) ([]HeatPoint, error) {
	points := make([]HeatPoint, 0, len(joined))
	for _, jr := range joined {
		c, err := geodata.Centroid(jr.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "dashboard: region %s", jr.FSA)
		}
		points = append(points, HeatPoint{Lat: c.Lat, Lon: c.Lon, Weight: jr.Sales.TotalEV})
	}
	return points, nil
}
