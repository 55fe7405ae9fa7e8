package dashboard

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/gta-evmap/internal/geodata"
	"github.com/sells-group/gta-evmap/internal/sales"
)

// Title is the page heading.
const Title = "City-Operated EV Charging Stations in Greater Toronto Area"

// SalesLoader returns the sales table for a slider position.
type SalesLoader interface {
	Load(ctx context.Context, i int) (sales.Quarter, []sales.Record, error)
}

// Summary holds headline numbers for a render pass.
type Summary struct {
	Regions        int     `json:"regions"`
	TotalEV        float64 `json:"total_ev"`
	Level2Stations int     `json:"level2_stations"`
	Level3Stations int     `json:"level3_stations"`
}

// View is the output of one render pass.
type View struct {
	Quarter     string  `json:"quarter"`
	Index       int     `json:"index"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Summary     Summary `json:"summary"`
	Toggles     Toggles `json:"toggles"`
	Canvas      *Canvas `json:"canvas"`
}

// Renderer holds the static inputs shared by every render pass.
type Renderer struct {
	regions []geodata.Region
	level2  []geodata.ChargingStation
	level3  []geodata.ChargingStation
	loader  SalesLoader
	mapCfg  MapConfig
}

// NewRenderer filters the stations once and keeps the boundaries for joining.
func NewRenderer(regions []geodata.Region, stations []geodata.ChargingStation, loader SalesLoader, mapCfg MapConfig) *Renderer {
	level2, level3 := FilterStations(stations)
	return &Renderer{
		regions: regions,
		level2:  level2,
		level3:  level3,
		loader:  loader,
		mapCfg:  mapCfg,
	}
}

// Render runs one pass: load the selected quarter, join, and compose.
// It reads no state besides its arguments and the static inputs.
func (r *Renderer) Render(ctx context.Context, sel Selection, t Toggles) (*View, error) {
	q, records, err := r.loader.Load(ctx, sel.Index)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: render")
	}

	joined := Join(r.regions, records)

	canvas, err := Compose(r.mapCfg, joined, r.level2, r.level3, t)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: render %s", q.Label)
	}

	summary := Summary{
		Regions:        len(joined),
		Level2Stations: len(r.level2),
		Level3Stations: len(r.level3),
	}
	for _, jr := range joined {
		summary.TotalEV += jr.Sales.TotalEV
	}

	zap.L().Debug("render pass complete",
		zap.String("component", "dashboard"),
		zap.String("quarter", q.Label),
		zap.Int("regions", summary.Regions),
		zap.Int("layers", len(canvas.Layers)),
	)

	return &View{
		Quarter:     q.Label,
		Index:       sel.Index,
		Title:       Title,
		Description: Description(q.Label),
		Summary:     summary,
		Toggles:     t,
		Canvas:      canvas,
	}, nil
}

// Description is the sentence shown under the title.
func Description(quarter string) string {
	return fmt.Sprintf("This map displays the locations of city-operated electric vehicle charging "+
		"stations in the Greater Toronto Area with options to view Level 2 or Level 3 chargers, "+
		"and an EV sales heatmap for %s.", quarter)
}

var printer = message.NewPrinter(language.English)

// SummaryLine formats the summary with thousands separators.
func (s Summary) SummaryLine() string {
	return printer.Sprintf("%d EVs sold across %d FSAs · %d Level 2 and %d Level 3 stations",
		int64(s.TotalEV), s.Regions, s.Level2Stations, s.Level3Stations)
}
