package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "harbor",
	Short: "Harbor - HTTP service with graceful shutdown and panic isolation",
	Long: `Harbor is a small HTTP service that demonstrates:
  - Graceful shutdown from an admin endpoint or an OS signal, whichever comes first
  - Containment of handler errors and panics to the failing request
  - Concurrent fan-out to its own endpoints with a timing summary`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (built-in defaults if empty)")
}
