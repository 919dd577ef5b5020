package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/embld/interviewflow/internal/cli"
)

// openStorage opens the configured store without building the engine, so
// maintenance commands need no LLM credentials.
func openStorage(cmd *cobra.Command) (cli.Storage, func(), error) {
	s, err := cli.OpenStorage(cmd.Context(), cfg.Store, cfg.Credits.InitialGrant)
	if err != nil {
		return cli.Storage{}, nil, err
	}
	return s, func() {
		if s.Close != nil {
			_ = s.Close()
		}
	}, nil
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted sessions",
	Long:  `List, inspect, and remove sessions kept in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer done()

		ids, err := s.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print a session and its state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer done()

		sess, err := s.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load session %q: %w", args[0], err)
		}
		data, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer done()

		var errs []error
		for _, id := range args {
			if err := s.Store.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
		}
		return errors.Join(errs...)
	},
}

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Inspect and grant user credits",
}

var creditsBalanceCmd = &cobra.Command{
	Use:   "balance <user>",
	Short: "Print the balance and history of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer done()

		balance, err := s.Ledger.Balance(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		txs, err := s.Ledger.Transactions(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d credits\n", args[0], balance)
		for _, tx := range txs {
			fmt.Fprintf(out, "  %s %+d -> %d %s %s\n",
				tx.CreatedAt.Format("2006-01-02 15:04"), tx.Amount, tx.BalanceAfter, tx.Reason, tx.Ref)
		}
		return nil
	},
}

var creditsGrantCmd = &cobra.Command{
	Use:   "grant <user> <amount>",
	Short: "Add credits to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[1])
		if err != nil || amount <= 0 {
			return fmt.Errorf("amount must be a positive integer, got %q", args[1])
		}
		s, done, err := openStorage(cmd)
		if err != nil {
			return err
		}
		defer done()

		balance, err := s.Ledger.Grant(cmd.Context(), args[0], amount, "admin_grant")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d credits\n", args[0], balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd, creditsCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionInspectCmd, sessionRmCmd)
	creditsCmd.AddCommand(creditsBalanceCmd, creditsGrantCmd)
}
