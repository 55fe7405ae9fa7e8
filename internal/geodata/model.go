// Package geodata loads area boundaries and charging-station points from
// GeoJSON or shapefile inputs into go-geom geometries.
package geodata

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Attribute names expected in the input files.
const (
	FieldFSA         = "CFSAUID"
	FieldLevel2Ports = "Level2_Charging_Ports"
	FieldLevel3Ports = "Level3_Charging_Ports"
	FieldLocation    = "Location"
)

// Region is a boundary polygon keyed by its forward sortation area code.
type Region struct {
	FSA        string         `json:"fsa"`
	Geometry   geom.T         `json:"-"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ChargingStation is a charger site with its port counts per power level.
type ChargingStation struct {
	Location    string         `json:"location"`
	Level2Ports int            `json:"level2_ports"`
	Level3Ports int            `json:"level3_ports"`
	Geometry    geom.T         `json:"-"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// HasLevel2 reports whether the station has at least one Level 2 port.
func (s ChargingStation) HasLevel2() bool { return s.Level2Ports > 0 }

// HasLevel3 reports whether the station has at least one Level 3 port.
func (s ChargingStation) HasLevel3() bool { return s.Level3Ports > 0 }

// stringProperty returns a property as a trimmed string. Numeric codes are
// formatted without a fractional part.
func stringProperty(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// portProperty parses a port count. Missing and null values count as zero.
func portProperty(props map[string]any, key string) (int, error) {
	switch v := props[key].(type) {
	case nil:
		return 0, nil
	case float64:
		if math.IsNaN(v) {
			return 0, nil
		}
		if v < 0 {
			return 0, eris.Errorf("geodata: %s is negative (%v)", key, v)
		}
		return int(v), nil
	case string:
		return parsePorts(key, v)
	default:
		return 0, eris.Errorf("geodata: %s has unsupported type %T", key, v)
	}
}

func parsePorts(key, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "geodata: parse %s %q", key, raw)
	}
	if f < 0 {
		return 0, eris.Errorf("geodata: %s is negative (%v)", key, f)
	}
	return int(f), nil
}
