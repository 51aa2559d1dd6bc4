package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jpalmerr/globalstore"
	"github.com/jpalmerr/globalstore/component"
	"github.com/jpalmerr/globalstore/config"
	"github.com/spf13/cobra"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// stepResult is one line of `run` output.
type stepResult struct {
	Step    int               `json:"step"`
	Action  string            `json:"action,omitempty"`
	Error   string            `json:"error,omitempty"`
	Renders int               `json:"renders"`
	State   globalstore.State `json:"state"`
}

// runCmd runs a definition's script.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a store definition's dispatch script",
	Long: `Build the store described by a definition and run its script.

The command:
  - Loads and validates the YAML definition
  - Mounts a component that listens to the store
  - Dispatches every script step in order
  - Prints one JSON line per step with the resulting state

Step 0 is the initial state. A failing step stops the run unless
--continue-on-error is set.

Example:
  globalstore run -c store.yaml
  globalstore run -c store.yaml --continue-on-error -v`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to definition file (required)")
	runCmd.Flags().Bool("continue-on-error", false, "keep running after a step fails")
	runCmd.Flags().BoolP("verbose", "v", false, "log at debug level")
	_ = runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	continueOnError, _ := cmd.Flags().GetBool("continue-on-error")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := newLogger(verbose)

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Info("config loaded",
		"store", cfg.Name,
		"actions", len(cfg.Actions),
		"steps", len(cfg.Script),
	)

	s, err := config.NewStore(cfg, globalstore.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to build store: %w", err)
	}

	var rendered globalstore.State
	view := component.New(func(c *component.Instance) {
		rendered, _ = s.Use(c, true)
	})
	view.Mount()
	defer view.Unmount()

	enc := json.NewEncoder(cmd.OutOrStdout())
	if err := writeStep(enc, stepResult{Step: 0, Renders: view.Renders(), State: rendered}); err != nil {
		return err
	}

	failed := 0
	for i, step := range cfg.Script {
		result := stepResult{Step: i + 1, Action: step.Action}

		if err := s.Dispatch(step.Action, step.Payload); err != nil {
			failed++
			result.Error = err.Error()
			logger.Warn("step failed", "step", i+1, "action", step.Action, "error", err.Error())
			if !continueOnError {
				result.Renders = view.Renders()
				result.State = s.State()
				_ = writeStep(enc, result)
				return fmt.Errorf("script[%d] (%s): %w", i, step.Action, err)
			}
		}

		view.Flush()
		result.Renders = view.Renders()
		result.State = rendered
		if err := writeStep(enc, result); err != nil {
			return err
		}
	}

	logger.Info("script complete", "steps", len(cfg.Script), "failed", failed)
	return nil
}

func writeStep(enc *json.Encoder, r stepResult) error {
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to write step %d: %w", r.Step, err)
	}
	return nil
}
