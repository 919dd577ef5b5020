package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embld/interviewflow/internal/presentation/graph"
	"github.com/embld/interviewflow/pkg/domain"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the workflow as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the interview workflow.
With --session, the session's position is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var overlay *graph.Overlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			s, done, err := openStorage(cmd)
			if err != nil {
				return err
			}
			defer done()
			sess, err := s.Store.Load(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load session %q: %w", id, err)
			}
			overlay = &graph.Overlay{
				VisitedNodes: graph.Visited(sess.CurrentNode),
				CurrentNode:  sess.CurrentNode,
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(domain.AllNodes(), domain.Transitions(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the position of this session")
}
