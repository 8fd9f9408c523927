package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xcursocr/shopkit/internal/config"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all local state",
	Long: `Reset shopkit by removing the local state file.

This deletes the saved session (you will have to log in again) and the
cart. The backend is not touched.

Examples:
  # Reset with confirmation
  shopkit reset

  # Reset without prompting
  shopkit reset --force`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	// Resolve the state path the same way buildApp does, but without
	// requiring a valid config: reset should work even when config is broken.
	statePath := stateFilePath
	if statePath == "" {
		statePath = os.Getenv("SHOPKIT_STATE_PATH")
	}
	if statePath == "" {
		if cfg, err := config.LoadConfigRaw(); err == nil {
			cfg.SetDefaults()
			statePath = cfg.State.Path
		}
	}
	if statePath == "" {
		return fmt.Errorf("could not resolve state file path")
	}

	type target struct {
		path string
		desc string
	}
	targets := []target{
		{statePath, "state file"},
		{statePath + ".bak", "state backup"},
		{statePath + ".lock", "state lock"},
	}

	var existing []target
	for _, t := range targets {
		if _, err := os.Stat(t.path); err == nil {
			existing = append(existing, t)
		}
	}
	if len(existing) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to reset, no state files found.")
		return nil
	}

	fmt.Fprintln(os.Stderr, "The following will be removed:")
	for _, t := range existing {
		fmt.Fprintf(os.Stderr, "  - %s (%s)\n", t.path, t.desc)
	}

	if !resetForce {
		fmt.Fprint(os.Stderr, "\nProceed? [y/N] ")
		var answer string
		fmt.Scanln(&answer) //nolint:errcheck // interactive prompt, error irrelevant
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	var failures int
	for _, t := range existing {
		if err := os.Remove(t.path); err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR removing %s: %v\n", t.path, err)
			failures++
		} else {
			fmt.Fprintf(os.Stderr, "  Removed %s\n", t.path)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d file(s) could not be removed", failures)
	}

	fmt.Fprintln(os.Stderr, "\nReset complete. Session and cart are gone.")
	return nil
}
