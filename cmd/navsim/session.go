package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/navigation/pkg/navigation/snapshot"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted sessions",
	Long:  `List, inspect, and remove session snapshots in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		infos, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(infos) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		for _, info := range infos {
			fmt.Fprintf(out, "%-24s %6dB  %s\n", info.SessionID, info.Size, info.SavedAt.Format(time.RFC3339))
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session's entry list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := snapshot.LoadSnapshot(cmd.Context(), store, args[0])
		if err != nil {
			return fmt.Errorf("load session %q: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "session %s (saved %s)\n", snap.SessionID, snap.SavedAt.Format(time.RFC3339))
		for i, rec := range snap.Entries {
			marker := " "
			if i == snap.Index {
				marker = "*"
			}
			fmt.Fprintf(out, "   %s [%d] %s", marker, i, rec.URL)
			if len(rec.State) > 0 {
				fmt.Fprintf(out, " state=%s", rec.State)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("remove %q: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
		}
		return nil
	},
}

func init() {
	sessionShowCmd.Flags().Bool("json", false, "print the raw snapshot")
	sessionCmd.AddCommand(sessionLsCmd, sessionShowCmd, sessionRmCmd)
}
