package geodata

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// dbfNameLen is the longest attribute name a dBase header can hold.
const dbfNameLen = 10

func regionsFromShapefile(path string) ([]Region, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := fieldNames(reader)
	fsaIdx := fieldIndex(fields, FieldFSA)
	if fsaIdx < 0 {
		return nil, eris.Errorf("geodata: shapefile %s has no %s field", path, FieldFSA)
	}

	var regions []Region
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		g := shapeToGeom(shape)
		if g == nil {
			skipped++
			continue
		}
		props := attributes(reader, fields)
		regions = append(regions, Region{
			FSA:        strings.TrimSpace(props[FieldFSA].(string)),
			Geometry:   g,
			Properties: props,
		})
	}

	if skipped > 0 {
		zap.L().Debug("geodata: skipped shapefile records without polygons",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return regions, nil
}

func stationsFromShapefile(path string) ([]ChargingStation, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := fieldNames(reader)
	for _, name := range []string{FieldLevel2Ports, FieldLevel3Ports, FieldLocation} {
		if fieldIndex(fields, name) < 0 {
			return nil, eris.Errorf("geodata: shapefile %s has no %s field", path, name)
		}
	}

	var stations []ChargingStation
	for reader.Next() {
		_, shape := reader.Shape()
		props := attributes(reader, fields)

		l2, err := parsePorts(FieldLevel2Ports, props[FieldLevel2Ports].(string))
		if err != nil {
			return nil, eris.Wrapf(err, "geodata: shapefile %s", path)
		}
		l3, err := parsePorts(FieldLevel3Ports, props[FieldLevel3Ports].(string))
		if err != nil {
			return nil, eris.Wrapf(err, "geodata: shapefile %s", path)
		}

		stations = append(stations, ChargingStation{
			Location:    strings.TrimSpace(props[FieldLocation].(string)),
			Level2Ports: l2,
			Level3Ports: l3,
			Geometry:    shapeToGeom(shape),
			Properties:  props,
		})
	}
	return stations, nil
}

func fieldNames(reader *shp.Reader) []string {
	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}
	return names
}

// fieldIndex finds name case-insensitively. A dBase header truncates long
// names, so a stored name of at least dbfNameLen characters that prefixes
// name also matches.
func fieldIndex(fields []string, name string) int {
	lower := strings.ToLower(name)
	for i, f := range fields {
		lf := strings.ToLower(f)
		if lf == lower || (len(lf) >= dbfNameLen && strings.HasPrefix(lower, lf)) {
			return i
		}
	}
	return -1
}

// attributes reads the current record keyed by canonical field names.
func attributes(reader *shp.Reader, fields []string) map[string]any {
	props := make(map[string]any, len(fields))
	for i, f := range fields {
		props[canonicalName(f)] = strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
	}
	return props
}

func canonicalName(field string) string {
	for _, name := range []string{FieldFSA, FieldLevel2Ports, FieldLevel3Ports, FieldLocation} {
		if fieldIndex([]string{field}, name) == 0 {
			return name
		}
	}
	return field
}

// shapeToGeom converts a go-shp shape to a go-geom geometry in WGS84.
// Returns nil for unsupported or empty shapes.
func shapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}).SetSRID(4326)
	case *shp.Polygon:
		return polygonToMultiPolygon(s)
	default:
		return nil
	}
}

// polygonToMultiPolygon groups shapefile rings into polygons. Outer rings
// wind clockwise; a counter-clockwise ring is a hole in the polygon before it.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	var current *geom.Polygon
	flush := func() {
		if current == nil {
			return
		}
		if err := mp.Push(current); err != nil {
			zap.L().Debug("geodata: skipping malformed polygon", zap.Error(err))
		}
		current = nil
	}

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		// A closed ring needs at least four points.
		if len(flat) < 8 {
			zap.L().Debug("geodata: skipping degenerate ring", zap.Int32("part", i), zap.Int("points", len(flat)/2))
			continue
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		if current != nil && xy.IsRingCounterClockwise(geom.XY, flat) {
			if err := current.Push(ring); err != nil {
				zap.L().Debug("geodata: skipping malformed hole", zap.Int32("part", i), zap.Error(err))
			}
			continue
		}

		flush()
		current = geom.NewPolygon(geom.XY)
		if err := current.Push(ring); err != nil {
			zap.L().Debug("geodata: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			current = nil
		}
	}
	flush()

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
