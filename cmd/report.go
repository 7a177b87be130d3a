package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/export"
)

var (
	reportWorld string
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an XLSX simulation report for a stored world",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := st.LoadWorld(ctx, reportWorld)
		if err != nil {
			return err
		}
		events, err := st.ListFloodEvents(ctx, reportWorld, 10000)
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = filepath.Join(cfg.Export.Dir, snap.Meta.ID+".xlsx")
		}

		if err := export.WriteReport(out, snap, events); err != nil {
			return err
		}

		zap.L().Info("report written",
			zap.String("world_id", snap.Meta.ID),
			zap.Int("flood_events", len(events)),
			zap.String("path", out))
		fmt.Printf("Report for %s written to %s.\n", snap.Meta.Name, out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportWorld, "world", "", "world ID to report on")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (default: <export.dir>/<world-id>.xlsx)")
	_ = reportCmd.MarkFlagRequired("world")
	rootCmd.AddCommand(reportCmd)
}
