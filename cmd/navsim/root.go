package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/navigation/pkg/navigation/config"
	"github.com/randalmurphal/navigation/pkg/navigation/snapshot"
)

var rootCmd = &cobra.Command{
	Use:           "navsim",
	Short:         "Navigation session simulator",
	Long:          `Play YAML navigation scripts against the navigation engine and manage persisted session snapshots.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (yaml or json)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sessionCmd)
}

// loadSettings reads --config, falling back to defaults when it is unset.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadSettings(path)
}

// openStore opens the configured snapshot store.
func openStore(cmd *cobra.Command) (config.Settings, snapshot.Store, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return settings, nil, err
	}
	store, err := snapshot.Open(settings.Persistence)
	if err != nil {
		return settings, nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return settings, store, nil
}
