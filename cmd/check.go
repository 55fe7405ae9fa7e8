package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/gta-evmap/internal/geodata"
	"github.com/sells-group/gta-evmap/internal/trend"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load every input file and report row counts",
	Long:  "Reads the boundary file, the station file, and every quarterly sales file. Fails on the first unreadable input.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("check"); err != nil {
			return err
		}

		regions, err := geodata.LoadRegions(cfg.Data.Boundaries)
		if err != nil {
			return err
		}
		stations, err := geodata.LoadStations(cfg.Data.Stations)
		if err != nil {
			return err
		}
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		points, err := trend.Aggregate(cmd.Context(), catalog, nil)
		if err != nil {
			return err
		}

		p := message.NewPrinter(language.English)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "boundaries\t%s\t%s regions\n", cfg.Data.Boundaries, p.Sprintf("%d", len(regions)))
		fmt.Fprintf(out, "stations\t%s\t%s stations\n", cfg.Data.Stations, p.Sprintf("%d", len(stations)))
		for _, pt := range points {
			fmt.Fprintf(out, "%s\t%s\t%s rows\t%s EVs\n", pt.Quarter, pt.Path,
				p.Sprintf("%d", pt.Rows), p.Sprintf("%d", int64(pt.TotalEV)))
		}

		zap.L().Info("inputs verified",
			zap.Int("regions", len(regions)),
			zap.Int("stations", len(stations)),
			zap.Int("quarters", len(points)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
