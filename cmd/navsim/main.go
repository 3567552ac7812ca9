// Command navsim plays scripted navigation sessions against the navigation
// engine and inspects persisted session snapshots.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
