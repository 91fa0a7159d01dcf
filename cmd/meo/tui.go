package main

import (
	"fmt"
	"io"

	"meo/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive interface",
	Long: `Open the terminal interface for the current game (or --game).

Tabs: [1] Mods, [2] Plugins, [3] Games. Press ? for key bindings.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	// Log lines would draw over the alt screen; the TUI shows errors itself
	svc.Logger().SetOutput(io.Discard)

	return tui.Run(svc, gameName)
}
