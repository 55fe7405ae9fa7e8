package dashboard

import "github.com/sells-group/gta-evmap/internal/geodata"

// FilterStations splits stations into those with Level 2 ports and those
// with Level 3 ports. A station with both appears in both; one with neither
// appears in neither.
func FilterStations(stations []geodata.ChargingStation) (level2, level3 []geodata.ChargingStation) {
	for _, s := range stations {
		if s.HasLevel2() {
			level2 = append(level2, s)
		}
		if s.HasLevel3() {
			level3 = append(level3, s)
		}
	}
	return level2, level3
}
