package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
)

var (
	generateSeed    int64
	generateName    string
	generatePeriods string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new world and persist it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("world"); err != nil {
			return err
		}

		if !cmd.Flags().Changed("seed") {
			generateSeed = time.Now().UnixNano()
		}
		name := generateName
		if name == "" {
			name = fmt.Sprintf("World %d", generateSeed)
		}

		periods, err := loadPeriods(generatePeriods)
		if err != nil {
			return err
		}

		sess, err := sim.Bootstrap(sim.BootstrapConfig{
			Name:             name,
			Width:            cfg.Map.Width,
			Height:           cfg.Map.Height,
			Seed:             generateSeed,
			Patches:          cfg.Map.Patches,
			PatchSize:        cfg.Map.PatchSize,
			Periods:          periods,
			Bounds:           seaBounds(),
			WarnMargin:       cfg.Sea.WarningMargin,
			PlayerPopulation: cfg.Player.Population,
			PlayerVision:     cfg.Player.Vision,
		})
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.SaveWorld(ctx, sess.Snapshot()); err != nil {
			return eris.Wrap(err, "generate")
		}

		census := sess.Grid().Census()
		zap.L().Info("world generated",
			zap.String("world_id", sess.Meta().ID),
			zap.Int64("seed", generateSeed),
			zap.Int("land", census.Land),
			zap.Int("water", census.Water),
			zap.Int("buildable", census.Buildable),
			zap.Int("patches", len(sess.Patches())),
		)

		printWorldSummary(os.Stdout, sess)
		return nil
	},
}

func init() {
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "world seed (default: current time)")
	generateCmd.Flags().StringVar(&generateName, "name", "", "world name (default: derived from seed)")
	generateCmd.Flags().StringVar(&generatePeriods, "periods", "", "YAML climate schedule file (default: built-in schedule)")
	rootCmd.AddCommand(generateCmd)
}
