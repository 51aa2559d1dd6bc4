package main

import (
	"fmt"

	"github.com/jpalmerr/globalstore/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a definition without running it.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a store definition",
	Long: `Validate a store definition without running its script.

This command parses the YAML, expands environment variables, validates
all fields, and builds every action handler. It's useful for CI/CD
pipelines or pre-deployment checks.

Exit codes:
  0 - Definition is valid
  1 - Definition is invalid (error details printed to stderr)

Example:
  globalstore validate -c store.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to definition file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, _, err := config.Build(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Store:         %s\n", cfg.Name)
	fmt.Fprintf(out, "  Initial keys:  %d\n", len(cfg.InitialState))
	fmt.Fprintf(out, "  Actions:       %d\n", len(cfg.Actions))
	for _, a := range cfg.Actions {
		fmt.Fprintf(out, "    %-14s %s\n", a.Name, a.Op)
	}
	fmt.Fprintf(out, "  Script steps:  %d\n", len(cfg.Script))

	return nil
}
