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

var worldsCmd = &cobra.Command{
	Use:   "worlds",
	Short: "List stored worlds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		worlds, err := st.ListWorlds(ctx, store.WorldFilter{Name: name, Limit: limit, Offset: offset})
		if err != nil {
			return eris.Wrap(err, "worlds list")
		}

		if len(worlds) == 0 {
			fmt.Fprintln(os.Stderr, "No worlds stored.")
			return nil
		}

		formatWorldsList(os.Stdout, worlds)
		return nil
	},
}

var worldsDeleteCmd = &cobra.Command{
	Use:   "delete <world-id>",
	Short: "Delete a stored world and its flood history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteWorld(ctx, args[0]); err != nil {
			return eris.Wrap(err, "worlds delete")
		}

		fmt.Printf("Deleted world %s.\n", args[0])
		return nil
	},
}

func init() {
	worldsCmd.Flags().String("name", "", "filter by exact name")
	worldsCmd.Flags().Int("limit", 50, "max number of worlds to display")
	worldsCmd.Flags().Int("offset", 0, "number of worlds to skip")

	worldsCmd.AddCommand(worldsDeleteCmd)
	rootCmd.AddCommand(worldsCmd)
}

// formatWorldsList writes a tabular list of worlds to out.
func formatWorldsList(out io.Writer, worlds []model.WorldMeta) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSEED\tSIZE\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t----\t-------")

	for _, m := range worlds {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%dx%d\t%s\n",
			truncateID(m.ID),
			m.Name,
			m.Seed,
			m.Width, m.Height,
			m.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
