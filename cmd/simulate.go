package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/store"
)

var (
	simulateWorld     string
	simulateCenturies int
	simulateWatch     bool
	simulateTPS       int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Advance a stored world through geological centuries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("world"); err != nil {
			return err
		}
		if !cmd.Flags().Changed("centuries") {
			simulateCenturies = cfg.Simulate.Centuries
		}
		if !cmd.Flags().Changed("tps") {
			simulateTPS = cfg.Simulate.TPS
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := st.LoadWorld(ctx, simulateWorld)
		if err != nil {
			return err
		}
		sess, err := sim.RestoreSession(snap, seaBounds(), cfg.Sea.WarningMargin)
		if err != nil {
			return err
		}

		ran, err := runCenturies(ctx, st, sess, simulateCenturies, simulateWatch, simulateTPS)
		if err != nil {
			return err
		}

		if err := st.SaveWorld(ctx, sess.Snapshot()); err != nil {
			return eris.Wrap(err, "simulate: save world")
		}

		fmt.Printf("Simulated %d centuries. Now century %d, %s, sea level %.2f, population %d.\n",
			ran, sess.Century(), sess.Clock().Current().Name, sess.Clock().SeaLevel(),
			sess.Settlement().Population())
		if sess.GameOver() {
			fmt.Println("The player has drowned; the settlement's story is over.")
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateWorld, "world", "", "world ID to simulate")
	simulateCmd.Flags().IntVar(&simulateCenturies, "centuries", 0, "centuries to advance (default: from config)")
	simulateCmd.Flags().BoolVar(&simulateWatch, "watch", false, "pace ticks for live watching")
	simulateCmd.Flags().IntVar(&simulateTPS, "tps", 0, "ticks per second with --watch (default: from config)")
	_ = simulateCmd.MarkFlagRequired("world")
	rootCmd.AddCommand(simulateCmd)
}

// runCenturies advances the session tick by tick, printing narrative
// messages and recording flood events as they happen. With watch
// enabled, ticks are paced so the narrative is readable live.
func runCenturies(ctx context.Context, st store.Store, sess *sim.Session, centuries int, watch bool, tps int) (int, error) {
	var limiter *rate.Limiter
	if watch {
		limiter = rate.NewLimiter(rate.Limit(tps), 1)
	}

	ran := 0
	for i := 0; i < centuries; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return ran, eris.Wrap(err, "simulate: interrupted")
			}
		} else if ctx.Err() != nil {
			return ran, eris.Wrap(ctx.Err(), "simulate: interrupted")
		}

		r := sess.AdvanceCentury()
		ran++
		for _, m := range r.Messages {
			fmt.Println(m)
		}

		if r.Result.Changed() || r.Result.PlayerDrowned {
			if err := st.RecordFloodEvent(ctx, floodEvent(sess.Meta().ID, r)); err != nil {
				return ran, eris.Wrap(err, "simulate: record flood event")
			}
		}

		if r.GameOver {
			zap.L().Warn("simulate: game over", zap.Int("century", r.Century))
			break
		}
	}
	return ran, nil
}

// floodEvent converts a century report into its history row. The store
// assigns the row ID and timestamp.
func floodEvent(worldID string, r sim.CenturyReport) model.FloodEvent {
	return model.FloodEvent{
		WorldID:           worldID,
		Century:           r.Century,
		Period:            r.Period,
		SeaLevel:          r.SeaLevel,
		TilesFlooded:      r.Result.TilesFlooded,
		TilesDrained:      r.Result.TilesDrained,
		PopulationDrowned: r.Result.PopulationDrowned,
		WellsLost:         r.Result.WellsLost,
		PlayerDrowned:     r.Result.PlayerDrowned,
	}
}
