package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embld/interviewflow/pkg/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect question plans",
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the built-in question plan",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = cmd.OutOrStdout().Write(plan.DefaultYAML())
	},
}

var planValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a question plan file",
	Long:  `Checks the given plan, or workflow.plan_file when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Workflow.PlanFile
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no plan file given and workflow.plan_file is not set")
		}
		p, err := plan.Load(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan is valid: %d clarification questions, %d fallback questions.\n",
			len(p.Clarification), len(p.DetailedFallback))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planShowCmd, planValidateCmd)
}
