package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/gta-evmap/internal/trend"
)

var trendOut string

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Chart total EV sales per quarter as a PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		points, err := trend.Aggregate(cmd.Context(), catalog, nil)
		if err != nil {
			return err
		}

		png, err := trend.Chart(points, 8*vg.Inch, 4*vg.Inch)
		if err != nil {
			return err
		}
		if err := os.WriteFile(trendOut, png, 0o644); err != nil {
			return eris.Wrap(err, "trend: write chart")
		}

		zap.L().Info("trend chart written", zap.String("out", trendOut), zap.Int("quarters", len(points)))
		return nil
	},
}

func init() {
	trendCmd.Flags().StringVarP(&trendOut, "out", "o", "trend.png", "output PNG file")
	rootCmd.AddCommand(trendCmd)
}
