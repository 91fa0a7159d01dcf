package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meo/internal/core"
	"meo/internal/domain"
	"meo/internal/watch"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	conflictsWatch    bool
	conflictsDebounce time.Duration
)

type conflictsJSONOutput struct {
	Game      string         `json:"game"`
	Root      string         `json:"root"`
	Conflicts []conflictJSON `json:"conflicts"`
}

type conflictJSON struct {
	Folder string   `json:"folder"`
	Paths  []string `json:"paths"`
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Show files overridden by more than one enabled mod",
	Long: `Scan the overlay root for files that appear in more than one enabled
mod folder. Each mod folder is listed with its conflicting files, relative
to the folder.

Disabled mods and the game's own folders (chr, parts, sfx, menu) are skipped.

Examples:
  meo conflicts
  meo conflicts --watch`,
	Args: cobra.NoArgs,
	RunE: runConflicts,
}

func init() {
	conflictsCmd.Flags().BoolVarP(&conflictsWatch, "watch", "w", false, "re-check whenever files under the overlay root change")
	conflictsCmd.Flags().DurationVar(&conflictsDebounce, "debounce", watch.DefaultDebounce, "quiet period before re-checking in watch mode")

	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}

	report, err := session.Conflicts()
	if err != nil {
		return err
	}
	if err := printConflicts(cmd, session, report); err != nil {
		return err
	}
	if !conflictsWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchConflicts(ctx, cmd, session, svc.Logger())
}

// watchConflicts re-runs detection after each burst of changes until ctx ends
func watchConflicts(ctx context.Context, cmd *cobra.Command, session *core.Session, logger *log.Logger) error {
	w, err := watch.New(watch.Config{
		Dir:      session.OverlayRoot(),
		Debounce: conflictsDebounce,
		OnChange: func(ctx context.Context, changed []string) error {
			if err := session.Registry.Reload(); err != nil {
				return err
			}
			report, err := session.Conflicts()
			if err != nil {
				return err
			}
			if !jsonOutput {
				cmd.Printf("\n%d path(s) changed\n", len(changed))
			}
			return printConflicts(cmd, session, report)
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if !jsonOutput {
		cmd.Printf("\nWatching %s (Ctrl+C to stop)\n", session.OverlayRoot())
	}
	return w.Run(ctx)
}

func printConflicts(cmd *cobra.Command, session *core.Session, report domain.ConflictReport) error {
	if jsonOutput {
		out := conflictsJSONOutput{
			Game:      session.Game.Name,
			Root:      session.OverlayRoot(),
			Conflicts: make([]conflictJSON, 0, len(report)),
		}
		for _, folder := range report.Folders() {
			out.Conflicts = append(out.Conflicts, conflictJSON{Folder: folder, Paths: report[folder]})
		}
		return printJSON(cmd, out)
	}

	if report.Empty() {
		cmd.Println(colorGreen("No conflicts found."))
		return nil
	}

	cmd.Printf("%s\n\n", colorYellow(fmt.Sprintf("%d conflicting file(s) in %d mod(s)", report.FileCount(), len(report))))
	for _, folder := range report.Folders() {
		cmd.Println(colorRed(folder))
		for _, p := range report[folder] {
			cmd.Printf("  %s\n", p)
		}
	}
	return nil
}
