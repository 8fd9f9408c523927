// Package cmd provides the CLI commands for shopkit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xcursocr/shopkit/internal/config"
)

var (
	cfgFile       string
	stateFilePath string
	outputJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "shopkit",
	Short: "shopkit - storefront and admin client",
	Long: `shopkit is a command-line client for the storefront backend.

It covers the customer flow (browse the catalog, manage a cart) and the
admin flow (manage products, brands, categories, and subcategories),
with a persistent login session stored locally.

Quick start:
  1. Point it at your backend: export SHOPKIT_API_BASE_URL=https://api.example.com/api/v1
  2. Sign in: shopkit login --email you@example.com
  3. Browse: shopkit products list --sort id:DESC --limit 8 --include brands

Configuration:
  Config is loaded from shopkit.yaml in the current directory,
  $HOME/.shopkit/, or /etc/shopkit/.

  Environment variables can override config values with the SHOPKIT_ prefix.
  Example: SHOPKIT_API_BASE_URL=http://localhost:3000/api/v1

Session and cart state persist in $HOME/.shopkit/state.json across runs.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./shopkit.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateFilePath, "state", "", "path to state.json file (default: $HOME/.shopkit/state.json)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print raw JSON payloads instead of tables")
}

func initConfig() {
	config.InitViper(cfgFile)
}
