package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embld/interviewflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of interviewflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "interviewflow version %s\n", interviewflow.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
