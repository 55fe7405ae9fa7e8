package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gta-evmap/internal/dashboard"
	"github.com/sells-group/gta-evmap/internal/web"
)

var (
	renderQuarter   string
	renderNoLevel2  bool
	renderNoLevel3  bool
	renderNoHeatmap bool
	renderFormat    string
	renderOut       string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one quarter's map to a file",
	Long:  "Runs a single render pass for a quarter and writes a standalone HTML page or the JSON canvas.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderFormat != "html" && renderFormat != "json" {
			return eris.Errorf("render: unknown format %q (want html or json)", renderFormat)
		}

		env, err := initDashboard(cmd.Context(), "render")
		if err != nil {
			return err
		}

		sel := dashboard.NewSelection()
		if renderQuarter != "" {
			idx := env.Catalog.Index(renderQuarter)
			if idx < 0 {
				return eris.Errorf("render: unknown quarter %q", renderQuarter)
			}
			if err := sel.Set(idx, env.Catalog.Len()); err != nil {
				return err
			}
		}

		toggles := dashboard.Toggles{
			Level2:  !renderNoLevel2,
			Level3:  !renderNoLevel3,
			Heatmap: !renderNoHeatmap,
		}

		view, err := env.Renderer.Render(cmd.Context(), sel, toggles)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if renderOut != "" {
			f, err := os.Create(renderOut)
			if err != nil {
				return eris.Wrap(err, "render: create output")
			}
			defer f.Close() //nolint:errcheck
			w = f
		}

		if renderFormat == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(view); err != nil {
				return eris.Wrap(err, "render: encode view")
			}
		} else if err := web.WriteStandalone(w, view); err != nil {
			return err
		}

		zap.L().Info("render complete",
			zap.String("quarter", view.Quarter),
			zap.Int("layers", len(view.Canvas.Layers)),
			zap.String("out", renderOut),
		)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderQuarter, "quarter", "", `quarter label, e.g. "Q1 2022" (default first quarter)`)
	renderCmd.Flags().BoolVar(&renderNoLevel2, "no-level2", false, "hide Level 2 chargers")
	renderCmd.Flags().BoolVar(&renderNoLevel3, "no-level3", false, "hide Level 3 chargers")
	renderCmd.Flags().BoolVar(&renderNoHeatmap, "no-heatmap", false, "hide the EV sales heatmap")
	renderCmd.Flags().StringVar(&renderFormat, "format", "html", "output format: html or json")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}
