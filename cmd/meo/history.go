package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

type historyJSON struct {
	Game      string    `json:"game"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent changes",
	Long: `Show the newest entries of the change journal, newest first.

Every change made through meo is journaled: mods, plugins and game profiles.
With --game only that game's entries are shown.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", historyLimit)
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	entries, err := svc.History(gameName, historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if jsonOutput {
		out := make([]historyJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, historyJSON{Game: e.Game, Action: e.Action, Subject: e.Subject, Detail: e.Detail, CreatedAt: e.CreatedAt})
		}
		return printJSON(cmd, out)
	}

	if len(entries) == 0 {
		cmd.Println("No history yet.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%-14s %-16s %-14s %s", humanize.Time(e.CreatedAt), e.Game, e.Action, e.Subject)
		if e.Detail != "" {
			line += " (" + e.Detail + ")"
		}
		cmd.Println(line)
	}
	return nil
}
