package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/navigation/pkg/navigation"
	"github.com/randalmurphal/navigation/pkg/navigation/snapshot"
)

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Play a navigation script",
	Long: `Play a YAML navigation script and print the entry list after every step.

When the config enables persistence, a snapshot of the session is saved after
every committed change. --resume starts from the stored snapshot instead of an
empty history.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	runCmd.Flags().String("session", "", "session id (default: script session or \"default\")")
	runCmd.Flags().Bool("resume", false, "restore the session's stored snapshot before playing")
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := LoadScript(args[0])
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := settings.Logger(cmd.ErrOrStderr())

	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID == "" {
		sessionID = sc.Session
	}
	if sessionID == "" {
		sessionID = "default"
	}
	if sc.BaseURL != "" {
		settings.BaseURL = sc.BaseURL
	}
	opts := navigation.OptionsFromSettings(settings, logger)

	var store snapshot.Store
	store, err = snapshot.Open(settings.Persistence)
	switch {
	case errors.Is(err, snapshot.ErrNoPersistence):
		store = nil
	case err != nil:
		return fmt.Errorf("open snapshot store: %w", err)
	default:
		defer store.Close()
	}

	if resume, _ := cmd.Flags().GetBool("resume"); resume {
		if store == nil {
			return errors.New("--resume requires persistence")
		}
		snap, err := snapshot.LoadSnapshot(cmd.Context(), store, sessionID)
		if err != nil {
			return fmt.Errorf("resume %s: %w", sessionID, err)
		}
		restore, err := snap.Restore()
		if err != nil {
			return err
		}
		opts = append(opts, restore)
	}

	nav := navigation.New(opts...)
	if store != nil {
		rec := snapshot.NewRecorder(store, sessionID, nav.View(), snapshot.WithRecorderLogger(logger))
		rec.Start()
		defer rec.Stop()
	}

	sim := newSimulator(nav, cmd.OutOrStdout(), logger)
	failed, err := sim.Run(cmd.Context(), sc)
	if err != nil {
		return err
	}
	logger.Info("script finished",
		slog.String("session_id", sessionID),
		slog.Int("steps", len(sc.Steps)),
		slog.Int("failed", failed),
	)
	return nil
}
