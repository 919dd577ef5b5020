package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/embld/interviewflow/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interview in the terminal",
	Long: `Starts an interactive interview on the terminal.

With --session the interview is saved after every step and resumes where it
stopped. Type "exit" or press Ctrl+D to leave; press Enter on an optional
question to skip it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		title, _ := cmd.Flags().GetString("title")
		jsonMode, _ := cmd.Flags().GetBool("json")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := buildApp(ctx, cli.WithoutCredits())
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.RunSession(ctx, app, cli.RunOptions{
			SessionID: sessionID,
			Title:     title,
			JSON:      jsonMode,
			NoBanner:  noBanner,
			In:        os.Stdin,
			Out:       os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "", "Persist the interview under this session ID")
	runCmd.Flags().String("title", "", "Title of a new session")
	runCmd.Flags().Bool("json", false, "Exchange NDJSON on stdin/stdout instead of text")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
}
