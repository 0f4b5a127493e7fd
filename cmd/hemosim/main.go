package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hemosim/hemosim/internal/config"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hemosim",
		Short: "Hemosim - interactive coagulation cascade simulator",
		Long: `hemosim teaches the cell-based model of coagulation.

It runs the qualitative cascade simulation (initiation on the TF-bearing
cell, amplification and propagation on the platelet, stabilization of the
clot) and a quantitative ODE model producing thrombin-generation curves
for clinical scenarios.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.hemosim/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newDemoCmd(),
		newSimulateCmd(),
		newScenariosCmd(),
		newSessionsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for a command run, honoring the
// --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
