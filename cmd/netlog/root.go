package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"network-quality-logger/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "netlog",
	Short: "Network quality logger",
	Long: "netlog pings a set of targets every tick, runs a speed test every few hundred ticks " +
		"and appends every result to an NDJSON log.",
	SilenceUsage: true,
	RunE:         runLogger,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addRunFlags(rootCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statsCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to a YAML configuration file")
	config.RegisterFlags(cmd.Flags())
}

// loadConfig layers defaults, the YAML file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyFlags(cmd.Flags(), &cfg); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
