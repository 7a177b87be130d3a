package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/beautifulplanet/Civil-Zones-sub001/internal/geology"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/model"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/sim"
	"github.com/beautifulplanet/Civil-Zones-sub001/internal/world"
)

var (
	inspectWorld  string
	inspectAt     string
	inspectAtRisk bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a stored world in detail",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("world"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := st.LoadWorld(ctx, inspectWorld)
		if err != nil {
			return err
		}
		sess, err := sim.RestoreSession(snap, seaBounds(), cfg.Sea.WarningMargin)
		if err != nil {
			return err
		}

		if inspectAt != "" {
			x, y, err := parseCoord(inspectAt)
			if err != nil {
				return err
			}
			return printTile(os.Stdout, sess.Grid(), x, y)
		}

		if inspectAtRisk {
			printAtRisk(os.Stdout, sess, cfg.Sea.WarningMargin)
			return nil
		}

		printWorldSummary(os.Stdout, sess)
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectWorld, "world", "", "world ID to inspect")
	inspectCmd.Flags().StringVar(&inspectAt, "at", "", "show a single tile, as X,Y")
	inspectCmd.Flags().BoolVar(&inspectAtRisk, "at-risk", false, "list buildings inside the sea warning margin")
	_ = inspectCmd.MarkFlagRequired("world")
	rootCmd.AddCommand(inspectCmd)
}

// parseCoord parses an "X,Y" tile reference.
func parseCoord(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, eris.Errorf("invalid coordinate %q (want X,Y)", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, eris.Errorf("invalid coordinate %q (want X,Y)", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, eris.Errorf("invalid coordinate %q (want X,Y)", s)
	}
	return x, y, nil
}

// printWorldSummary writes the world overview table to out.
func printWorldSummary(out io.Writer, sess *sim.Session) {
	m := sess.Meta()
	census := sess.Grid().Census()
	clock := sess.Clock()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "World:\t%s (%s)\n", m.Name, truncateID(m.ID))
	_, _ = fmt.Fprintf(w, "Seed:\t%d\n", m.Seed)
	_, _ = fmt.Fprintf(w, "Size:\t%dx%d\n", m.Width, m.Height)
	_, _ = fmt.Fprintf(w, "Century:\t%d\n", sess.Century())
	_, _ = fmt.Fprintf(w, "Period:\t%s\n", clock.Current().Name)
	_, _ = fmt.Fprintf(w, "Sea level:\t%.2f\n", clock.SeaLevel())
	_, _ = fmt.Fprintf(w, "Population:\t%d\n", sess.Settlement().Population())
	_, _ = fmt.Fprintf(w, "Buildings:\t%d\n", len(sess.Settlement().Buildings()))
	_, _ = fmt.Fprintf(w, "High-ground patches:\t%d\n", len(sess.Patches()))
	_, _ = fmt.Fprintf(w, "Land tiles:\t%d\n", census.Land)
	_, _ = fmt.Fprintf(w, "Water tiles:\t%d\n", census.Water)
	_, _ = fmt.Fprintf(w, "Buildable tiles:\t%d\n", census.Buildable)
	_, _ = fmt.Fprintf(w, "Explored tiles:\t%d\n", census.Explored)
	if sess.GameOver() {
		_, _ = fmt.Fprintln(w, "Status:\tGAME OVER")
	}
	_ = w.Flush()
}

// printTile writes one tile's full state to out.
func printTile(out io.Writer, g *world.Grid, x, y int) error {
	t := g.At(x, y)
	if t == nil {
		return eris.Errorf("tile (%d, %d) is out of bounds", x, y)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Tile:\t(%d, %d)\n", x, y)
	_, _ = fmt.Fprintf(w, "Type:\t%s\n", t.Type)
	_, _ = fmt.Fprintf(w, "Original type:\t%s\n", t.OriginalType)
	_, _ = fmt.Fprintf(w, "Elevation:\t%.2f\n", t.Elevation)
	_, _ = fmt.Fprintf(w, "Explored:\t%t\n", t.Explored)

	var features []string
	if t.Type.Drinkable() {
		features = append(features, "drinkable water")
	}
	if t.Tree {
		features = append(features, "tree")
	}
	if t.Road {
		features = append(features, "road")
	}
	if t.Berry {
		features = append(features, "berry")
	}
	if len(features) > 0 {
		_, _ = fmt.Fprintf(w, "Features:\t%s\n", strings.Join(features, ", "))
	}
	if t.Zone != 0 {
		_, _ = fmt.Fprintf(w, "Zone:\t%c\n", t.Zone)
	}
	if t.Building != nil {
		_, _ = fmt.Fprintf(w, "Building:\t%s (%s)\n", t.Building.Type, truncateID(t.Building.ID))
	}
	if t.Deposit != nil {
		_, _ = fmt.Fprintf(w, "Deposit:\t%d stone, %d metal\n", t.Deposit.Stone, t.Deposit.Metal)
	}
	_ = w.Flush()
	return nil
}

// printAtRisk lists buildings whose footprint dips inside the sea
// warning margin, plus the count of dry tiles the next rise would take.
func printAtRisk(out io.Writer, sess *sim.Session, margin float64) {
	sea := sess.Clock().SeaLevel()
	atRisk := sess.Settlement().AtRisk(sess.Grid(), sea, margin)
	tiles := geology.TilesAtRisk(sess.Grid(), sea, margin)

	fmt.Fprintf(out, "Sea level %.2f, warning margin %.2f: %d land tiles at risk.\n", sea, margin, tiles)

	if len(atRisk) == 0 {
		fmt.Fprintln(out, "No buildings at risk.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TYPE\tID\tANCHOR\tLOW POINT\tPOPULATION")
	for _, b := range atRisk {
		_, _ = fmt.Fprintf(w, "%s\t%s\t(%d, %d)\t%.2f\t%d\n",
			b.Type,
			truncateID(b.ID),
			b.X, b.Y,
			buildingLowPoint(sess.Grid(), b),
			b.Population,
		)
	}
	_ = w.Flush()
}

// buildingLowPoint returns the lowest elevation under a footprint.
func buildingLowPoint(g *world.Grid, b *model.Building) float64 {
	size := b.Type.Footprint()
	low := 0.0
	first := true
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			if e, ok := g.ElevationAt(b.X+dx, b.Y+dy); ok && (first || e < low) {
				low = e
				first = false
			}
		}
	}
	return low
}
