package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:          "crossing [command] [flags]",
		Short:        "crossing measures the added travel cost of closing a rail crossing",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}
	rootCmd.PersistentFlags().String("data-dir", "", "`<Dir>` holding the snapshot tables (default $DATA_DIR or data)")
	rootCmd.PersistentFlags().String("addresses", "", "`<Path>` to the address csv (default $ADDRESS_PATH)")
	rootCmd.PersistentFlags().String("routes", "", "`<Path>` to a yaml route plan (default $ROUTES_PATH or built-in)")
	rootCmd.PersistentFlags().Bool("allow-partial", false, "compute the delta over shared coordinates only")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run every step and print the delta",
		RunE:  doRun,
	}
	runCmd.Flags().Int("limit", 20, "`<N>` rows of the delta to print, 0 for all")

	collectCmd := &cobra.Command{
		Use:   "collect [flags] [destination...]",
		Short: "Resolve address distances to each destination",
		RunE:  doCollect,
	}

	adjustCmd := &cobra.Command{
		Use:   "adjust",
		Short: "Add the alternate to goal leg to each alternate table",
		RunE:  doAdjust,
	}

	shorterCmd := &cobra.Command{
		Use:   "shorter",
		Short: "Keep the cheaper adjusted route per address",
		RunE:  doShorter,
	}

	deltaCmd := &cobra.Command{
		Use:   "delta",
		Short: "Subtract the direct route from the shorter route",
		RunE:  doDelta,
	}

	showCmd := &cobra.Command{
		Use:   "show [flags] <table>",
		Short: "Print a saved table with totals",
		Args:  cobra.ExactArgs(1),
		RunE:  doShow,
	}
	showCmd.Flags().Int("limit", 20, "`<N>` rows to print, 0 for all")
	showCmd.Flags().String("style", "default", "table style: default, bold, double, light, round")

	rootCmd.AddCommand(
		runCmd,
		collectCmd,
		adjustCmd,
		shorterCmd,
		deltaCmd,
		showCmd,
	)
	return rootCmd
}
