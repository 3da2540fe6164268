package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Building it per call keeps flag state
// out of package globals so tests can run commands independently.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sir-forecast",
		Short:         "Project an open SIR population year by year",
		Long:          "Project the susceptible, infected and recovered compartments of a population with births, deaths, transmission and recovery, together with the yearly event totals that produced them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return rootCmd
}
