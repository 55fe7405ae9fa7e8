package dashboard

import (
	"go.uber.org/zap"

	"github.com/sells-group/gta-evmap/internal/geodata"
	"github.com/sells-group/gta-evmap/internal/sales"
)

// JoinedRegion is a boundary annotated with one quarter's sales.
type JoinedRegion struct {
	geodata.Region
	Sales sales.Record `json:"sales"`
}

// Join inner-joins regions to sales on CFSAUID = FSA, keeping boundary order.
// Regions without a sales row are dropped. An FSA listed more than once in
// the sales table yields one row per listing.
func Join(regions []geodata.Region, records []sales.Record) []JoinedRegion {
	byFSA := make(map[string][]sales.Record, len(records))
	for _, rec := range records {
		byFSA[rec.FSA] = append(byFSA[rec.FSA], rec)
	}

	joined := make([]JoinedRegion, 0, len(regions))
	var unmatched int
	for _, region := range regions {
		matches := byFSA[region.FSA]
		if len(matches) == 0 {
			unmatched++
			continue
		}
		if len(matches) > 1 {
			zap.L().Warn("dashboard: duplicate FSA in sales table",
				zap.String("fsa", region.FSA),
				zap.Int("rows", len(matches)),
			)
		}
		for _, rec := range matches {
			joined = append(joined, JoinedRegion{Region: region, Sales: rec})
		}
	}

	if unmatched > 0 {
		zap.L().Debug("dashboard: regions without sales dropped from join",
			zap.Int("unmatched", unmatched),
			zap.Int("joined", len(joined)),
		)
	}
	return joined
}
