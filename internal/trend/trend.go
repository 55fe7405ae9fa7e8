// Package trend aggregates EV sales across every quarter and charts them.
package trend

import (
	"bytes"
	"context"
	"image/color"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/gta-evmap/internal/sales"
)

// maxConcurrentReads bounds parallel sales file reads.
const maxConcurrentReads = 4

// Point is one quarter's total.
type Point struct {
	Quarter string  `json:"quarter"`
	Path    string  `json:"path"`
	Rows    int     `json:"rows"`
	TotalEV float64 `json:"total_ev"`
}

// ReadFunc reads one quarter's sales file.
type ReadFunc func(path string) ([]sales.Record, error)

// Aggregate reads every quarter in the catalog and sums TotalEV per quarter.
// Results keep catalog order. The first failing file aborts the rest.
func Aggregate(ctx context.Context, catalog *sales.Catalog, read ReadFunc) ([]Point, error) {
	if read == nil {
		read = sales.ReadFile
	}

	quarters := catalog.Quarters()
	points := make([]Point, len(quarters))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, q := range quarters {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			records, err := read(q.Path)
			if err != nil {
				return eris.Wrapf(err, "trend: %s", q.Label)
			}
			p := Point{Quarter: q.Label, Path: q.Path, Rows: len(records)}
			for _, r := range records {
				p.TotalEV += r.TotalEV
			}
			points[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Chart renders points as a PNG bar chart.
func Chart(points []Point, width, height vg.Length) ([]byte, error) {
	if len(points) == 0 {
		return nil, eris.New("trend: no points to chart")
	}

	p := plot.New()
	p.Title.Text = "EV Sales by Quarter, Greater Toronto Area"
	p.Y.Label.Text = "EVs sold"

	values := make(plotter.Values, len(points))
	labels := make([]string, len(points))
	for i, pt := range points {
		values[i] = pt.TotalEV
		labels[i] = pt.Quarter
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, eris.Wrap(err, "trend: bar chart")
	}
	bars.Color = color.RGBA{R: 49, G: 130, B: 189, A: 255}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, eris.Wrap(err, "trend: encode chart")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, eris.Wrap(err, "trend: write chart")
	}
	return buf.Bytes(), nil
}
