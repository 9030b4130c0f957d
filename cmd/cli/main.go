// Command marketviz-cli validates the simulation tables and renders charts,
// maps, and workbook exports without starting the web server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"marketviz/adapters/export"
	"marketviz/domain/frame"
	"marketviz/domain/market"
	"marketviz/domain/trend"
	"marketviz/internal/config"
	"marketviz/internal/dataset"
	"marketviz/render"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "marketviz-cli",
		Short: "MarketViz CLI for validating and rendering simulation data",
	}

	rootCmd.AddCommand(
		newValidateCmd(),
		newRenderCmd(),
		newExportCmd(),
		newSummaryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadDataset reads the tables named by the environment, same as the server.
func loadDataset(ctx context.Context) (*market.Dataset, []string, error) {
	appConfig, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return dataset.NewLoader(appConfig.Data).Load(ctx)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the simulation tables, reporting warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, warnings, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("OK: %d history rows, %d cell records, days 0..%d\n",
				len(ds.History), len(ds.Cells), ds.MaxDay)
			if ds.HasBoundary() {
				fmt.Printf("Boundary: %s (%d rings)\n", ds.Boundary.Name, len(ds.Boundary.Rings))
			} else {
				fmt.Println("Boundary: none")
			}
			for _, w := range warnings {
				fmt.Printf("Warning: %s\n", w)
			}
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var day int
	var out string
	var kind string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart or map PNG to a file",
		Long: `Render a PNG for one of: map, share, conversions, churn.

Example: marketviz-cli render --kind map --day 120 --out day120.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			if day < 0 || day > ds.MaxDay {
				return fmt.Errorf("day %d outside dataset range 0..%d", day, ds.MaxDay)
			}

			var png []byte
			switch kind {
			case "map":
				f := frame.Select(ds, day, frame.DefaultOptions())
				png, err = render.StaticMap(f, ds.Boundary, render.DefaultMapOptions())
			case "share", "conversions", "churn":
				metric := map[string]trend.Metric{
					"share":       trend.MetricShare,
					"conversions": trend.MetricConversions,
					"churn":       trend.MetricChurn,
				}[kind]
				opts := render.DefaultChartOptions()
				opts.LifecycleOverlay = metric == trend.MetricShare
				png, err = render.TrendChart(ds, metric, opts)
			default:
				return fmt.Errorf("unknown kind %q (want map, share, conversions or churn)", kind)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "day to render (map only)")
	cmd.Flags().StringVar(&out, "out", "out.png", "output file")
	cmd.Flags().StringVar(&kind, "kind", "map", "what to render: map, share, conversions, churn")
	return cmd
}

func newExportCmd() *cobra.Command {
	var day int
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history table or one day's frame as a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			var data []byte
			if day < 0 {
				data, err = export.HistoryWorkbook(ds)
			} else {
				if day > ds.MaxDay {
					return fmt.Errorf("day %d outside dataset range 0..%d", day, ds.MaxDay)
				}
				f := frame.Select(ds, day, frame.DefaultOptions())
				data, err = export.FrameWorkbook(f)
			}
			if err != nil {
				return err
			}

			if filepath.Ext(out) != ".xlsx" {
				out += ".xlsx"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", -1, "export one day's frame; -1 exports the full history")
	cmd.Flags().StringVar(&out, "out", "export.xlsx", "output file")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print per-strategy share summaries as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(trend.Summaries(ds))
		},
	}
}
