package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/geology"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
)

var periodsFile string

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Show the climate period schedule",
	RunE: func(cmd *cobra.Command, _ []string) error {
		periods, err := loadPeriods(periodsFile)
		if err != nil {
			return err
		}
		formatPeriods(os.Stdout, periods)
		return nil
	},
}

func init() {
	periodsCmd.Flags().StringVar(&periodsFile, "periods", "", "YAML climate schedule file (default: built-in schedule)")
	rootCmd.AddCommand(periodsCmd)
}

// loadPeriods resolves the climate schedule: an explicit flag path
// wins, then the configured file, then the built-in schedule.
func loadPeriods(flagPath string) ([]model.GeologicalPeriod, error) {
	path := flagPath
	if path == "" {
		path = cfg.Geology.PeriodsFile
	}
	if path == "" {
		return geology.DefaultPeriods(), nil
	}
	return geology.LoadPeriods(path)
}

// seaBounds maps the sea configuration onto the geology envelope.
func seaBounds() geology.Bounds {
	return geology.Bounds{Min: cfg.Sea.Min, Max: cfg.Sea.Max, Rate: cfg.Sea.Rate}
}

// formatPeriods writes the schedule table to out.
func formatPeriods(out io.Writer, periods []model.GeologicalPeriod) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tNAME\tDURATION\tTARGET SEA LEVEL")

	cycle := 0
	for i, p := range periods {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d centuries\t%.1f\n", i+1, p.Name, p.Duration, p.TargetSeaLevel)
		cycle += p.Duration
	}

	_, _ = fmt.Fprintf(w, "\tFull cycle\t%d centuries\t\n", cycle)
	_ = w.Flush()
}
