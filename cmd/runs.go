package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Axewc/reverse-geocoding/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent processing runs",
	Long:  "Lists the run journal kept in the configured SQLite store, newest first.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("run history requires a store (set RGEO_CACHE_PATH or cache.path)")
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(ctx, runsLimit)
		if err != nil {
			return eris.Wrap(err, "list runs")
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

func formatRunsList(w io.Writer, runs []store.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMMAND\tINPUT\tOUTPUT\tTOTAL\tFAILED\tSTARTED\tSTATUS")
	for _, r := range runs {
		status := "running"
		if r.FinishedAt != nil {
			status = "finished"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID[:8], r.Command, r.InputFile, r.OutputFile,
			r.Total, r.Failed,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			status,
		)
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
