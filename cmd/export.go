package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/export"
)

var (
	exportWorld  string
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored world as GeoJSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}
		if exportFormat != "geojson" {
			return eris.Errorf("unsupported export format: %s", exportFormat)
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := st.LoadWorld(ctx, exportWorld)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = filepath.Join(cfg.Export.Dir, snap.Meta.ID+".geojson")
		}

		if err := export.WriteGeoJSON(out, snap); err != nil {
			return err
		}

		zap.L().Info("world exported",
			zap.String("world_id", snap.Meta.ID),
			zap.String("path", out))
		fmt.Printf("Exported %s to %s.\n", snap.Meta.Name, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportWorld, "world", "", "world ID to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: <export.dir>/<world-id>.geojson)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "geojson", "export format")
	_ = exportCmd.MarkFlagRequired("world")
	rootCmd.AddCommand(exportCmd)
}
