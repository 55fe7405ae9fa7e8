package dashboard

import (
	"context"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/gta-evmap/internal/geodata"
	"github.com/sells-group/gta-evmap/internal/sales"
)

// square returns a closed 0.1-degree polygon with its south-west corner at lon, lat.
func square(lon, lat float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		lon, lat,
		lon, lat + 0.1,
		lon + 0.1, lat + 0.1,
		lon + 0.1, lat,
		lon, lat,
	}, []int{10})
}

func region(fsa string, lon, lat float64) geodata.Region {
	return geodata.Region{FSA: fsa, Geometry: square(lon, lat), Properties: map[string]any{"CFSAUID": fsa}}
}

func station(loc string, l2, l3 int) geodata.ChargingStation {
	return geodata.ChargingStation{
		Location:    loc,
		Level2Ports: l2,
		Level3Ports: l3,
		Geometry:    geom.NewPointFlat(geom.XY, []float64{-79.38, 43.65}),
	}
}

// fakeLoader serves fixed tables per index and records which it was asked for.
type fakeLoader struct {
	catalog *sales.Catalog
	tables  map[int][]sales.Record
	calls   []int
}

func (f *fakeLoader) Load(_ context.Context, i int) (sales.Quarter, []sales.Record, error) {
	f.calls = append(f.calls, i)
	q, err := f.catalog.At(i)
	if err != nil {
		return sales.Quarter{}, nil, err
	}
	return q, f.tables[i], nil
}
