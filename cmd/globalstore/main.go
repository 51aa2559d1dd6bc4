// Package main is the entry point for the globalstore CLI.
//
// The CLI runs YAML store definitions: it builds the store, mounts a
// listening component, executes the definition's dispatch script, and prints
// every resulting state. It is useful for trying out action definitions and
// checking them in CI.
//
// Usage:
//
//	globalstore run -c store.yaml      # Run the dispatch script
//	globalstore validate -c store.yaml # Validate a definition
//	globalstore version                # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "globalstore",
	Short: "Run and validate shared state store definitions",
	Long: `globalstore runs declarative shared-state store definitions.

A definition declares the initial state, the actions that can be
dispatched, and an optional script of dispatches to run.

Quick start:
  1. Create a definition (store.yaml)
  2. Run: globalstore run -c store.yaml

Example definition:
  name: counter
  initial_state:
    count: 0
  actions:
    - name: inc
      op: add:count
  script:
    - action: inc
      payload: 5`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this globalstore binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "globalstore %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
