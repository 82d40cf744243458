package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tlvarchive/lib/telemetry"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "tlvarchive",
	Short: "tlvarchive downloads building-permit documents from the Tel Aviv municipal archive.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging/instrumentation.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
