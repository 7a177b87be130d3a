package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize flood history across all stored worlds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		worlds, err := st.ListWorlds(ctx, store.WorldFilter{Limit: 1000})
		if err != nil {
			return eris.Wrap(err, "status")
		}
		if len(worlds) == 0 {
			fmt.Fprintln(os.Stderr, "No worlds stored.")
			return nil
		}

		rows := make([]worldStatus, 0, len(worlds))
		for _, m := range worlds {
			events, err := st.ListFloodEvents(ctx, m.ID, 10000)
			if err != nil {
				return eris.Wrapf(err, "status: world %s", m.ID)
			}
			rows = append(rows, computeWorldStatus(m, events))
		}

		formatStatus(os.Stdout, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// worldStatus aggregates one world's flood-event history.
type worldStatus struct {
	Meta          model.WorldMeta
	Events        int
	TilesFlooded  int
	TilesDrained  int
	Drowned       int
	WellsLost     int
	PlayerDrowned bool
	LastCentury   int
}

// computeWorldStatus folds a world's event log into totals.
func computeWorldStatus(m model.WorldMeta, events []model.FloodEvent) worldStatus {
	s := worldStatus{Meta: m, Events: len(events)}
	for _, ev := range events {
		s.TilesFlooded += ev.TilesFlooded
		s.TilesDrained += ev.TilesDrained
		s.Drowned += ev.PopulationDrowned
		s.WellsLost += ev.WellsLost
		if ev.PlayerDrowned {
			s.PlayerDrowned = true
		}
		if ev.Century > s.LastCentury {
			s.LastCentury = ev.Century
		}
	}
	return s
}

// formatStatus writes the per-world table and a totals line to out.
func formatStatus(out io.Writer, rows []worldStatus) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WORLD\tEVENTS\tFLOODED\tDRAINED\tDROWNED\tWELLS LOST\tLAST EVENT")

	var total worldStatus
	for _, s := range rows {
		last := "-"
		if s.Events > 0 {
			last = fmt.Sprintf("century %d", s.LastCentury)
		}
		name := s.Meta.Name
		if s.PlayerDrowned {
			name += " (game over)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			name, s.Events, s.TilesFlooded, s.TilesDrained, s.Drowned, s.WellsLost, last)

		total.Events += s.Events
		total.TilesFlooded += s.TilesFlooded
		total.TilesDrained += s.TilesDrained
		total.Drowned += s.Drowned
		total.WellsLost += s.WellsLost
	}

	_, _ = fmt.Fprintf(w, "TOTAL (%d worlds)\t%d\t%d\t%d\t%d\t%d\t\n",
		len(rows), total.Events, total.TilesFlooded, total.TilesDrained, total.Drowned, total.WellsLost)
	_ = w.Flush()
}
