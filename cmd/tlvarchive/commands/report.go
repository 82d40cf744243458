package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tlvarchive/lib/serviceutil"
	"tlvarchive/lib/sqliteutil"
	"tlvarchive/services/harvester"
	"tlvarchive/services/harvester/db"
)

var reportFlags struct {
	db     *string
	output *string
}

func init() {
	reportFlags.db = reportCmd.Flags().String("db", "", "Results database written by a fetch run.")
	reportFlags.output = reportCmd.Flags().String("output", "output", "Output directory of the same run.")
	reportCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report --db <path/to/results.db> [--output <dir>]",
	Short: "Re-renders the run report from a results database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database, err := sqliteutil.OpenDB(db.Schema, *reportFlags.db)
		if err != nil {
			serviceutil.Fatal("open results db", err)
		}
		defer database.Close()
		store := harvester.NewStore(database)

		tiks, err := store.Tiks(ctx)
		if err != nil {
			serviceutil.Fatal("read tiks", err)
		}
		parcels := map[string]bool{}
		for _, tik := range tiks {
			parcels[strings.Join([]string{tik.TatRova, tik.Gush, tik.Chelka}, "_")] = true
		}

		summary, err := harvester.BuildSummary(ctx, store, *reportFlags.output, len(parcels))
		if err != nil {
			serviceutil.Fatal("build summary", err)
		}
		fmt.Println(summary.Render())
	},
}
